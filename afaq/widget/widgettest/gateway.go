// Package widgettest provides an in-memory backend for widget tests.
package widgettest

import (
	"context"
	"sync"

	"afaq/afaq/widget/gateway"
	"afaq/afaq/widget/store"
)

// Gateway is a scriptable fake of the chat backend. Zero values of the
// error fields mean success. Calls are recorded by operation name.
type Gateway struct {
	mu sync.Mutex

	Chats     []store.ChatSummary
	Histories map[string][]store.Message
	Replies   map[string]gateway.SendResult

	EnsureErr  error
	ListErr    error
	HistoryErr error
	SendErr    error
	DeleteErr  error
	ClearErr   error

	// NewChatID is returned for sends without a chat id when no Reply is scripted.
	NewChatID string

	// BeforeHistory, when set, runs inside FetchHistory before it returns.
	BeforeHistory func(chatID string)
	// BeforeSend, when set, runs inside SendMessage before it returns.
	BeforeSend func(text, chatID string)

	Calls []Call
}

type Call struct {
	Op     string
	ChatID string
	Text   string
}

func (g *Gateway) record(c Call) {
	g.mu.Lock()
	g.Calls = append(g.Calls, c)
	g.mu.Unlock()
}

// Count returns how many times op was called.
func (g *Gateway) Count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (g *Gateway) EnsureSession(ctx context.Context) error {
	g.record(Call{Op: "ensure_session"})
	return g.EnsureErr
}

func (g *Gateway) ListChats(ctx context.Context) ([]store.ChatSummary, error) {
	g.record(Call{Op: "list_chats"})
	if g.ListErr != nil {
		return nil, g.ListErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]store.ChatSummary(nil), g.Chats...), nil
}

func (g *Gateway) FetchHistory(ctx context.Context, chatID string) ([]store.Message, error) {
	g.record(Call{Op: "fetch_history", ChatID: chatID})
	if g.BeforeHistory != nil {
		g.BeforeHistory(chatID)
	}
	if g.HistoryErr != nil {
		return nil, g.HistoryErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]store.Message(nil), g.Histories[chatID]...), nil
}

func (g *Gateway) SendMessage(ctx context.Context, text, chatID string) (gateway.SendResult, error) {
	g.record(Call{Op: "send_message", ChatID: chatID, Text: text})
	if g.BeforeSend != nil {
		g.BeforeSend(text, chatID)
	}
	if g.SendErr != nil {
		return gateway.SendResult{}, g.SendErr
	}
	if res, ok := g.Replies[text]; ok {
		return res, nil
	}
	if chatID == "" {
		chatID = g.NewChatID
	}
	return gateway.SendResult{ChatID: chatID, Reply: "echo: " + text}, nil
}

func (g *Gateway) DeleteChat(ctx context.Context, chatID string) error {
	g.record(Call{Op: "delete_chat", ChatID: chatID})
	if g.DeleteErr != nil {
		return g.DeleteErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.Chats[:0:0]
	for _, c := range g.Chats {
		if c.ChatID != chatID {
			kept = append(kept, c)
		}
	}
	g.Chats = kept
	return nil
}

func (g *Gateway) ClearAllChats(ctx context.Context) error {
	g.record(Call{Op: "clear_all_chats"})
	if g.ClearErr != nil {
		return g.ClearErr
	}
	g.mu.Lock()
	g.Chats = nil
	g.mu.Unlock()
	return nil
}
