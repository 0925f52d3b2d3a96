// Package gateway talks to the chat backend over HTTP. It owns no chat state;
// the only thing it keeps between calls is the session cookie.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	httputils "afaq/afaq/utils/http"
	"afaq/afaq/utils/logging"
	"afaq/afaq/widget/store"

	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const DefaultBaseURL = "http://localhost:8000/api"

// SendResult is the backend answer to a sent message.
type SendResult struct {
	ChatID string
	Reply  string
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("creating cookie jar: %w", err)
		}
		c.http.Jar = jar
	}
	return c, nil
}

func (c *Client) endpoint(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *Client) do(ctx context.Context, op, method, target string, body *strings.Reader, contentType string, resp interface{}) error {
	defer logging.LogDuration(ctx, "gateway_"+op)()

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	if err := classify(op, httputils.Do(c.http, req, resp)); err != nil {
		logging.AppLogger.Warn("gateway request failed",
			zap.String("op", op),
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// EnsureSession establishes or refreshes the backend session cookie.
func (c *Client) EnsureSession(ctx context.Context) error {
	return c.do(ctx, "ensure_session", http.MethodGet, c.endpoint("session"), nil, "", nil)
}

type chatsResponse struct {
	Chats []struct {
		ChatID    string `json:"chat_id"`
		Title     string `json:"title"`
		CreatedAt string `json:"created_at"`
	} `json:"chats"`
}

// ListChats returns the chats of the session in backend order.
func (c *Client) ListChats(ctx context.Context) ([]store.ChatSummary, error) {
	var resp chatsResponse
	if err := c.do(ctx, "list_chats", http.MethodGet, c.endpoint("chats"), nil, "", &resp); err != nil {
		return nil, err
	}
	out := make([]store.ChatSummary, 0, len(resp.Chats))
	for _, ch := range resp.Chats {
		out = append(out, store.ChatSummary{ChatID: ch.ChatID, Title: ch.Title, CreatedAt: ch.CreatedAt})
	}
	return out, nil
}

type historyResponse struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

// FetchHistory returns the transcript of chatID. Message ids are list positions.
func (c *Client) FetchHistory(ctx context.Context, chatID string) ([]store.Message, error) {
	var resp historyResponse
	if err := c.do(ctx, "fetch_history", http.MethodGet, c.endpoint("history", chatID), nil, "", &resp); err != nil {
		return nil, err
	}
	out := make([]store.Message, 0, len(resp.Messages))
	for i, m := range resp.Messages {
		role := store.RoleUser
		if m.Role == string(store.RoleAssistant) {
			role = store.RoleAssistant
		}
		out = append(out, store.Message{ID: int64(i), Role: role, Text: m.Content})
	}
	return out, nil
}

type sendResponse struct {
	ChatID string `json:"chat_id"`
	Reply  string `json:"reply"`
}

// SendMessage posts text to chatID. An empty chatID asks the backend to create a chat.
func (c *Client) SendMessage(ctx context.Context, text, chatID string) (SendResult, error) {
	form := url.Values{}
	form.Set("message", text)
	if chatID != "" {
		form.Set("chat_id", chatID)
	}
	var resp sendResponse
	err := c.do(ctx, "send_message", http.MethodPost, c.endpoint("message"),
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &resp)
	if err != nil {
		return SendResult{}, err
	}
	if resp.ChatID == "" {
		return SendResult{}, &Error{Kind: KindServer, Op: "send_message", Err: errors.New("response has no chat_id")}
	}
	return SendResult{ChatID: resp.ChatID, Reply: resp.Reply}, nil
}

func (c *Client) DeleteChat(ctx context.Context, chatID string) error {
	return c.do(ctx, "delete_chat", http.MethodDelete, c.endpoint("chat", chatID), nil, "", nil)
}

func (c *Client) ClearAllChats(ctx context.Context) error {
	return c.do(ctx, "clear_all_chats", http.MethodDelete, c.endpoint("chats"), nil, "", nil)
}
