package controllers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"afaq/afaq/services/llm"
	"afaq/afaq/sources/psql/dao"
	"afaq/afaq/sources/psql/models"
	"afaq/afaq/types"
	"afaq/afaq/utils/logging"

	"go.uber.org/zap"
)

const (
	contextWindow    = 10
	titleLimit       = 40
	placeholderTitle = "New Chat"
	createdAtLayout  = "2006-01-02 15:04:05"
)

var (
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrAssistantUnavailable = errors.New("assistant unavailable")
	ErrChatNotFound         = dao.ErrChatNotFound
)

// WebsiteContent supplies the scraped site text used to ground replies.
type WebsiteContent interface {
	Content(ctx context.Context) string
}

type ChatOptions struct {
	Model     string
	MaxTokens int
}

type ChatController struct {
	chatDAO *dao.ChatDAO
	llm     llm.Client
	website WebsiteContent
	opts    ChatOptions
}

func NewChatController(chatDAO *dao.ChatDAO, client llm.Client, website WebsiteContent, opts ChatOptions) *ChatController {
	return &ChatController{chatDAO: chatDAO, llm: client, website: website, opts: opts}
}

func chatViews(chats []models.Chat) []types.ChatView {
	out := make([]types.ChatView, 0, len(chats))
	for _, ch := range chats {
		out = append(out, types.ChatView{
			ChatID:    ch.ChatID,
			Title:     ch.Title,
			CreatedAt: ch.CreatedAt.UTC().Format(createdAtLayout),
		})
	}
	return out
}

// ChatTitle derives a chat title from its first user message.
func ChatTitle(message string) string {
	runes := []rune(message)
	title := message
	if len(runes) > titleLimit {
		title = string(runes[:titleLimit]) + "..."
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return placeholderTitle
	}
	return title
}

func isPlaceholderTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t == "" || strings.EqualFold(t, placeholderTitle)
}

func (c *ChatController) ListChats(ctx context.Context, sessionID string) (*types.ChatsResponse, error) {
	if sessionID == "" {
		return &types.ChatsResponse{Chats: []types.ChatView{}}, nil
	}
	chats, err := c.chatDAO.ListChats(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &types.ChatsResponse{Chats: chatViews(chats)}, nil
}

func (c *ChatController) History(ctx context.Context, sessionID, chatID string) (*types.HistoryResponse, error) {
	if _, err := c.chatDAO.GetChat(ctx, sessionID, chatID); err != nil {
		return nil, err
	}
	history, err := c.chatDAO.GetChatHistory(ctx, sessionID, chatID)
	if err != nil {
		return nil, err
	}
	msgs := make([]types.MessageView, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, types.MessageView{Role: m.Role, Content: m.Content})
	}
	return &types.HistoryResponse{SessionID: sessionID, ChatID: chatID, Messages: msgs}, nil
}

// SessionHistory returns every message of the session across chats.
func (c *ChatController) SessionHistory(ctx context.Context, sessionID string) (*types.SessionHistoryResponse, error) {
	history, err := c.chatDAO.GetSessionHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	msgs := make([]types.SessionMessageView, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, types.SessionMessageView{ChatID: m.ChatID, Role: m.Role, Content: m.Content})
	}
	return &types.SessionHistoryResponse{SessionID: sessionID, Messages: msgs}, nil
}

// NewChat hands out an id without persisting anything; the chat row is created on its first message.
func (c *ChatController) NewChat() *types.NewChatResponse {
	return &types.NewChatResponse{ChatID: c.chatDAO.NewChatID()}
}

// resolveChat returns the chat the message belongs to, creating it when
// chatID is empty or unknown to the session.
func (c *ChatController) resolveChat(ctx context.Context, sessionID, chatID, message string) (string, error) {
	if chatID != "" {
		chat, err := c.chatDAO.GetChat(ctx, sessionID, chatID)
		switch {
		case err == nil:
			if isPlaceholderTitle(chat.Title) {
				if err := c.chatDAO.UpdateChatTitle(ctx, chat.ChatID, ChatTitle(message)); err != nil {
					return "", err
				}
			}
			return chat.ChatID, nil
		case !errors.Is(err, dao.ErrChatNotFound):
			return "", err
		}
	}
	chat, err := c.chatDAO.CreateChat(ctx, sessionID, c.chatDAO.NewChatID(), ChatTitle(message))
	if err != nil {
		return "", err
	}
	return chat.ChatID, nil
}

func (c *ChatController) SendMessage(ctx context.Context, sessionID, chatID, message string) (*types.SendMessageResponse, error) {
	defer logging.LogDuration(ctx, "send_message")()

	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	chatID, err := c.resolveChat(ctx, sessionID, chatID, message)
	if err != nil {
		return nil, err
	}
	if _, err := c.chatDAO.SaveMessage(ctx, sessionID, chatID, llm.RoleUser, message); err != nil {
		return nil, err
	}

	history, err := c.chatDAO.GetChatHistory(ctx, sessionID, chatID)
	if err != nil {
		return nil, err
	}
	if len(history) > contextWindow {
		history = history[len(history)-contextWindow:]
	}

	conversation := make([]llm.Message, 0, len(history)+1)
	conversation = append(conversation, llm.Message{Role: llm.RoleSystem, Content: SystemPrompt(c.website.Content(ctx))})
	for _, m := range history {
		conversation = append(conversation, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := c.llm.Run(ctx, llm.ChatRequest{
		Model:     c.opts.Model,
		Messages:  conversation,
		MaxTokens: c.opts.MaxTokens,
	})
	if err != nil {
		logging.ErrorLogger.Error("assistant call failed",
			zap.String("chat_id", chatID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrAssistantUnavailable, err)
	}

	if _, err := c.chatDAO.SaveMessage(ctx, sessionID, chatID, llm.RoleAssistant, reply); err != nil {
		return nil, err
	}
	logging.AppLogger.Info("reply generated",
		zap.String("chat_id", chatID),
		zap.Int("context_messages", len(history)),
	)
	return &types.SendMessageResponse{Reply: reply, ChatID: chatID, SessionID: sessionID}, nil
}

func (c *ChatController) DeleteChat(ctx context.Context, sessionID, chatID string) (*types.DeleteChatResponse, error) {
	if err := c.chatDAO.DeleteChat(ctx, sessionID, chatID); err != nil {
		return nil, err
	}
	chats, err := c.chatDAO.ListChats(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &types.DeleteChatResponse{Message: "Chat deleted", ChatID: chatID, Chats: chatViews(chats)}, nil
}

func (c *ChatController) ClearAll(ctx context.Context, sessionID string) (*types.StatusMessage, error) {
	if err := c.chatDAO.ClearSession(ctx, sessionID); err != nil {
		return nil, err
	}
	return &types.StatusMessage{Message: "All chat history cleared for this session."}, nil
}

func (c *ChatController) WebsiteContent(ctx context.Context) *types.WebsiteContentResponse {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return &types.WebsiteContentResponse{Content: c.website.Content(ctx)}
}

func SessionResponse(sessionID string) *types.SessionResponse {
	return &types.SessionResponse{SessionID: sessionID}
}
