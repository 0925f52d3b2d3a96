package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response body is kept in StatusError.
const maxErrorBody = 4 << 10

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status: %d", e.Code)
	}
	return fmt.Sprintf("bad status: %d: %s", e.Code, e.Body)
}

// DecodeError is returned when a 2xx body cannot be decoded into the response value.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decoding response: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// Do sends req and decodes a JSON body into resp when resp is non-nil.
// Transport failures are returned as-is from the client.
func Do(client *http.Client, req *http.Request, resp interface{}) error {
	if client == nil {
		client = http.DefaultClient
	}
	r, err := client.Do(req)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode < 200 || r.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(r.Body, maxErrorBody))
		return &StatusError{Code: r.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	if resp == nil {
		_, _ = io.Copy(io.Discard, r.Body)
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(resp); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

func newJSONRequest(ctx context.Context, url string, body interface{}) (*http.Request, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// PostJSONWithAuth posts body as JSON with a bearer token and decodes the reply into resp.
func PostJSONWithAuth(ctx context.Context, client *http.Client, url, apiKey string, body interface{}, resp interface{}) error {
	req, err := newJSONRequest(ctx, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	return Do(client, req, resp)
}
