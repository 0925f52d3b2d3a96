// Package pipeline runs one user message round trip against the backend:
// optimistic append, dispatch, reply merge and chat list refresh.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"afaq/afaq/utils/logging"
	"afaq/afaq/widget/gateway"
	"afaq/afaq/widget/store"

	"go.uber.org/zap"
)

var (
	ErrEmptyInput = errors.New("message is empty")
	ErrBusy       = errors.New("a message is already being sent")
)

// Gateway is the part of the backend the pipeline needs.
type Gateway interface {
	SendMessage(ctx context.Context, text, chatID string) (gateway.SendResult, error)
	ListChats(ctx context.Context) ([]store.ChatSummary, error)
}

type State int

const (
	Idle State = iota
	Sending
)

func (s State) String() string {
	if s == Sending {
		return "sending"
	}
	return "idle"
}

type Pipeline struct {
	store      *store.ChatStore
	gw         Gateway
	now        func() time.Time
	clearInput func()

	idMu   sync.Mutex
	lastID int64
}

type Option func(*Pipeline)

// WithClock overrides the wall clock used for local message ids.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithInputClearer registers the hook that empties the input field once a send settles.
func WithInputClearer(fn func()) Option {
	return func(p *Pipeline) { p.clearInput = fn }
}

func New(s *store.ChatStore, gw Gateway, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:      s,
		gw:         gw,
		now:        time.Now,
		clearInput: func() {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Pipeline) State() State {
	if p.store.Snapshot().Pending {
		return Sending
	}
	return Idle
}

// nextID returns a millisecond timestamp, bumped when needed so ids stay
// strictly increasing within the session.
func (p *Pipeline) nextID() int64 {
	p.idMu.Lock()
	defer p.idMu.Unlock()
	id := p.now().UnixMilli()
	if id <= p.lastID {
		id = p.lastID + 1
	}
	p.lastID = id
	return id
}

// Submit sends input as a user message. Whitespace-only input and submits
// while another send is pending are rejected without touching the store.
// On failure the optimistic user message stays in the transcript.
func (p *Pipeline) Submit(ctx context.Context, input string) error {
	if strings.TrimSpace(input) == "" {
		return ErrEmptyInput
	}
	if !p.store.TryBeginSend() {
		return ErrBusy
	}
	defer func() {
		p.clearInput()
		p.store.SetPending(false)
	}()

	snap := p.store.Snapshot()
	p.store.AppendMessage(store.Message{ID: p.nextID(), Role: store.RoleUser, Text: input})

	res, err := p.gw.SendMessage(ctx, input, snap.ActiveChatID)
	if err != nil {
		logging.ErrorLogger.Error("send message failed",
			zap.String("chat_id", snap.ActiveChatID),
			zap.Error(err),
		)
		return fmt.Errorf("sending message: %w", err)
	}

	reply := store.Message{ID: p.nextID(), Role: store.RoleAssistant, Text: res.Reply}
	if !p.store.CommitReply(snap.Generation, res.ChatID, reply) {
		logging.AppLogger.Info("dropping reply for a chat that is no longer active",
			zap.String("chat_id", res.ChatID),
		)
	}

	chats, err := p.gw.ListChats(ctx)
	if err != nil {
		logging.ErrorLogger.Error("refreshing chat list after send failed", zap.Error(err))
		return nil
	}
	p.store.LoadChats(chats)
	return nil
}
