package gateway

import (
	"errors"
	"fmt"
	"net/http"

	httputils "afaq/afaq/utils/http"
)

// Kind classifies gateway failures.
type Kind int

const (
	// KindNetwork covers transport, DNS and timeout failures.
	KindNetwork Kind = iota + 1
	// KindServer means the backend was reachable but reported a failure.
	KindServer
	// KindNotFound means the request referenced a chat the backend no longer has.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindNotFound:
		return "not found"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind   Kind
	Op     string
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *httputils.StatusError
	if errors.As(err, &se) {
		kind := KindServer
		if se.Code == http.StatusNotFound {
			kind = KindNotFound
		}
		return &Error{Kind: kind, Op: op, Status: se.Code, Err: err}
	}
	var de *httputils.DecodeError
	if errors.As(err, &de) {
		return &Error{Kind: KindServer, Op: op, Err: err}
	}
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

func isKind(err error, kind Kind) bool {
	var ge *Error
	return errors.As(err, &ge) && ge.Kind == kind
}

func IsNetwork(err error) bool  { return isKind(err, KindNetwork) }
func IsServer(err error) bool   { return isKind(err, KindServer) }
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }
