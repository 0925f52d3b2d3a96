// Package controller wires the chat widget flows: initialization, chat
// switching, new chat, delete and clear-all, on top of the store, the send
// pipeline and the backend gateway.
package controller

import (
	"context"
	"errors"
	"fmt"

	"afaq/afaq/utils/logging"
	"afaq/afaq/widget/gateway"
	"afaq/afaq/widget/pipeline"
	"afaq/afaq/widget/store"

	"go.uber.org/zap"
)

// Gateway is the backend contract the controller drives.
type Gateway interface {
	pipeline.Gateway
	EnsureSession(ctx context.Context) error
	FetchHistory(ctx context.Context, chatID string) ([]store.Message, error)
	DeleteChat(ctx context.Context, chatID string) error
	ClearAllChats(ctx context.Context) error
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// UI is supplied by the presentation layer.
type UI interface {
	Confirm(prompt string) bool
	Notify(kind NoticeKind, message string)
}

// ErrCancelled is returned when the user declines a destructive action.
var ErrCancelled = errors.New("cancelled by user")

const (
	deleteChatPrompt = "Delete this chat? This chat and its messages will be removed permanently."
	clearAllPrompt   = "Are you sure? This will permanently delete all chat history."
)

type Controller struct {
	store    *store.ChatStore
	gw       Gateway
	ui       UI
	pipeline *pipeline.Pipeline
}

func New(s *store.ChatStore, gw Gateway, ui UI, p *pipeline.Pipeline) *Controller {
	if p == nil {
		p = pipeline.New(s, gw)
	}
	return &Controller{store: s, gw: gw, ui: ui, pipeline: p}
}

func (c *Controller) Store() *store.ChatStore { return c.store }

// Initialize makes sure a session exists, loads the chat list and hydrates
// the first chat. Failures leave the store empty and are only logged.
func (c *Controller) Initialize(ctx context.Context) {
	defer logging.LogDuration(ctx, "controller_initialize")()

	if err := c.gw.EnsureSession(ctx); err != nil {
		logging.ErrorLogger.Error("ensure session failed", zap.Error(err))
	}

	chats, err := c.gw.ListChats(ctx)
	if err != nil {
		logging.ErrorLogger.Error("initial chat list failed", zap.Error(err))
		return
	}
	c.store.LoadChats(chats)
	if len(chats) == 0 {
		return
	}
	c.hydrate(ctx, chats[0].ChatID)
}

// SelectChat switches to chatID. Selecting the active chat does nothing.
func (c *Controller) SelectChat(ctx context.Context, chatID string) {
	if chatID == "" || c.store.Snapshot().ActiveChatID == chatID {
		return
	}
	c.hydrate(ctx, chatID)
}

func (c *Controller) hydrate(ctx context.Context, chatID string) {
	gen := c.store.SelectChat(chatID)
	msgs, err := c.gw.FetchHistory(ctx, chatID)
	if err != nil {
		logging.ErrorLogger.Error("fetch history failed",
			zap.String("chat_id", chatID),
			zap.Error(err),
		)
		msgs = nil
	}
	if !c.store.HydrateMessages(gen, msgs) {
		logging.AppLogger.Info("discarding stale history", zap.String("chat_id", chatID))
	}
}

// NewChat starts an empty chat; the backend assigns its id on the first send.
func (c *Controller) NewChat() {
	c.store.Reset()
}

// Send submits user input through the send pipeline and notifies on failure.
func (c *Controller) Send(ctx context.Context, input string) error {
	err := c.pipeline.Submit(ctx, input)
	switch {
	case err == nil:
	case errors.Is(err, pipeline.ErrEmptyInput), errors.Is(err, pipeline.ErrBusy):
	default:
		c.ui.Notify(NoticeError, sendFailureMessage(err))
	}
	return err
}

func sendFailureMessage(err error) string {
	switch {
	case gateway.IsNetwork(err):
		return "Could not reach the assistant. Check your connection and try again."
	case gateway.IsNotFound(err):
		return "This chat no longer exists. Start a new chat and try again."
	default:
		return "The assistant could not answer right now. Please try again."
	}
}

// DeleteChat removes chatID after user confirmation.
func (c *Controller) DeleteChat(ctx context.Context, chatID string) error {
	if !c.ui.Confirm(deleteChatPrompt) {
		return ErrCancelled
	}
	if err := c.gw.DeleteChat(ctx, chatID); err != nil {
		logging.ErrorLogger.Error("delete chat failed", zap.String("chat_id", chatID), zap.Error(err))
		c.ui.Notify(NoticeError, "Failed to delete chat")
		return fmt.Errorf("deleting chat %s: %w", chatID, err)
	}

	if chats, err := c.gw.ListChats(ctx); err != nil {
		logging.ErrorLogger.Error("refreshing chat list after delete failed", zap.Error(err))
		c.store.RemoveChat(chatID)
	} else {
		c.store.LoadChats(chats)
		if c.store.Snapshot().ActiveChatID == chatID {
			c.store.Reset()
		}
	}
	c.ui.Notify(NoticeSuccess, "Chat deleted")
	return nil
}

// ClearAll deletes every chat of the session after user confirmation.
func (c *Controller) ClearAll(ctx context.Context) error {
	if !c.ui.Confirm(clearAllPrompt) {
		return ErrCancelled
	}
	if err := c.gw.ClearAllChats(ctx); err != nil {
		logging.ErrorLogger.Error("clear all chats failed", zap.Error(err))
		c.ui.Notify(NoticeError, "Something went wrong while clearing chats.")
		return fmt.Errorf("clearing chats: %w", err)
	}
	c.store.ClearAll()
	c.ui.Notify(NoticeSuccess, "All chats have been cleared successfully.")
	return nil
}
