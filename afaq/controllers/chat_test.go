package controllers

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"afaq/afaq/config"
	"afaq/afaq/services/llm"
	"afaq/afaq/sources/psql"
	"afaq/afaq/sources/psql/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	requests []llm.ChatRequest
	reply    string
	err      error
}

func (f *fakeLLM) Run(_ context.Context, req llm.ChatRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type staticSite string

func (s staticSite) Content(context.Context) string { return string(s) }

func setupChatController(t *testing.T) (*ChatController, *dao.ChatDAO, *fakeLLM) {
	t.Helper()
	db, err := psql.NewDatabase(context.Background(), config.Config{
		DBDriver: "sqlite",
		DBPath:   filepath.Join(t.TempDir(), "database", "chatbot.db"),
	})
	require.NoError(t, err)
	t.Cleanup(db.Close)

	chatDAO := dao.NewChatDAO(db.DB)
	model := &fakeLLM{reply: "Hello from Afaq"}
	ctrl := NewChatController(chatDAO, model, staticSite("Desert safari daily"), ChatOptions{Model: "test-model", MaxTokens: 600})
	return ctrl, chatDAO, model
}

func TestChatTitle(t *testing.T) {
	assert.Equal(t, "Hi", ChatTitle("  Hi  "))
	assert.Equal(t, "New Chat", ChatTitle("   "))
	long := strings.Repeat("a", 45)
	assert.Equal(t, strings.Repeat("a", 40)+"...", ChatTitle(long))
	assert.Equal(t, strings.Repeat("é", 40)+"...", ChatTitle(strings.Repeat("é", 41)))
}

func TestSendMessageCreatesChat(t *testing.T) {
	ctrl, chatDAO, model := setupChatController(t)
	ctx := context.Background()

	resp, err := ctrl.SendMessage(ctx, "s1", "", "Tell me about safaris")
	require.NoError(t, err)
	assert.Equal(t, "Hello from Afaq", resp.Reply)
	assert.Equal(t, "s1", resp.SessionID)
	require.NotEmpty(t, resp.ChatID)

	chat, err := chatDAO.GetChat(ctx, "s1", resp.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "Tell me about safaris", chat.Title)

	require.Len(t, model.requests, 1)
	req := model.requests[0]
	assert.Equal(t, "test-model", req.Model)
	assert.Equal(t, 600, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "Desert safari daily")
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "Tell me about safaris"}, req.Messages[1])

	history, err := ctrl.History(ctx, "s1", resp.ChatID)
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "assistant", history.Messages[1].Role)
}

func TestSendMessageUnknownChatIDCreatesNewChat(t *testing.T) {
	ctrl, _, _ := setupChatController(t)
	resp, err := ctrl.SendMessage(context.Background(), "s1", "temporary-id", "hello")
	require.NoError(t, err)
	assert.NotEqual(t, "temporary-id", resp.ChatID)
}

func TestSendMessageReplacesPlaceholderTitle(t *testing.T) {
	ctrl, chatDAO, _ := setupChatController(t)
	ctx := context.Background()
	_, err := chatDAO.CreateChat(ctx, "s1", "c1", "New Chat")
	require.NoError(t, err)

	resp, err := ctrl.SendMessage(ctx, "s1", "c1", "Dubai city tour prices")
	require.NoError(t, err)
	assert.Equal(t, "c1", resp.ChatID)

	chat, err := chatDAO.GetChat(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Dubai city tour prices", chat.Title)

	// a real title is kept
	_, err = ctrl.SendMessage(ctx, "s1", "c1", "another question")
	require.NoError(t, err)
	chat, err = chatDAO.GetChat(ctx, "s1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "Dubai city tour prices", chat.Title)
}

func TestSendMessageContextWindow(t *testing.T) {
	ctrl, _, model := setupChatController(t)
	ctx := context.Background()

	resp, err := ctrl.SendMessage(ctx, "s1", "", "message 0")
	require.NoError(t, err)
	for i := 1; i < 8; i++ {
		_, err := ctrl.SendMessage(ctx, "s1", resp.ChatID, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	last := model.requests[len(model.requests)-1]
	// system prompt plus the last ten stored messages, ending with the new user turn
	require.Len(t, last.Messages, 11)
	assert.Equal(t, "message 7", last.Messages[10].Content)
	assert.Equal(t, llm.RoleUser, last.Messages[10].Role)
}

func TestSendMessageErrors(t *testing.T) {
	ctrl, chatDAO, model := setupChatController(t)
	ctx := context.Background()

	_, err := ctrl.SendMessage(ctx, "s1", "", "  ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	model.err = errors.New("rate limited")
	_, err = ctrl.SendMessage(ctx, "s1", "", "hello")
	assert.ErrorIs(t, err, ErrAssistantUnavailable)

	// the user turn stays persisted
	all, err := chatDAO.GetSessionHistory(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "user", all[0].Role)
}

func TestListDeleteAndClear(t *testing.T) {
	ctrl, _, _ := setupChatController(t)
	ctx := context.Background()

	empty, err := ctrl.ListChats(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, empty.Chats)
	assert.Empty(t, empty.Chats)

	a, err := ctrl.SendMessage(ctx, "s1", "", "first chat")
	require.NoError(t, err)
	b, err := ctrl.SendMessage(ctx, "s1", "", "second chat")
	require.NoError(t, err)

	list, err := ctrl.ListChats(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, list.Chats, 2)

	_, err = ctrl.History(ctx, "s2", a.ChatID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	del, err := ctrl.DeleteChat(ctx, "s1", a.ChatID)
	require.NoError(t, err)
	assert.Equal(t, "Chat deleted", del.Message)
	require.Len(t, del.Chats, 1)
	assert.Equal(t, b.ChatID, del.Chats[0].ChatID)

	_, err = ctrl.DeleteChat(ctx, "s1", a.ChatID)
	assert.ErrorIs(t, err, ErrChatNotFound)

	all, err := ctrl.SessionHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, all.Messages, 2)

	_, err = ctrl.ClearAll(ctx, "s1")
	require.NoError(t, err)
	list, err = ctrl.ListChats(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, list.Chats)
}

func TestNewChatAndWebsiteContent(t *testing.T) {
	ctrl, _, _ := setupChatController(t)
	assert.NotEmpty(t, ctrl.NewChat().ChatID)
	assert.Equal(t, "Desert safari daily", ctrl.WebsiteContent(context.Background()).Content)
}

func TestSystemPrompt(t *testing.T) {
	p := SystemPrompt("SITE TEXT")
	assert.True(t, strings.HasPrefix(p, "You are Afaq Tours Dubai's official travel assistant."))
	assert.True(t, strings.HasSuffix(p, "Website Context:\nSITE TEXT"))
}
