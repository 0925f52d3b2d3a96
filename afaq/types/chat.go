package types

// Response bodies of the /api routes. Field names match what the web and
// terminal widgets decode.

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type MessageView struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SessionMessageView is a message of the legacy all-chats history.
type SessionMessageView struct {
	ChatID  string `json:"chat_id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreatedAt uses the "2006-01-02 15:04:05" UTC layout.
type ChatView struct {
	ChatID    string `json:"chat_id"`
	Title     string `json:"title"`
	CreatedAt string `json:"created_at"`
}

type ChatsResponse struct {
	Chats []ChatView `json:"chats"`
}

type HistoryResponse struct {
	SessionID string        `json:"session_id"`
	ChatID    string        `json:"chat_id"`
	Messages  []MessageView `json:"messages"`
}

type SessionHistoryResponse struct {
	SessionID string               `json:"session_id"`
	Messages  []SessionMessageView `json:"messages"`
}

type NewChatResponse struct {
	ChatID string `json:"chat_id"`
}

type SendMessageResponse struct {
	Reply     string `json:"reply"`
	ChatID    string `json:"chat_id"`
	SessionID string `json:"session_id"`
}

type DeleteChatResponse struct {
	Message string     `json:"message"`
	ChatID  string     `json:"chat_id"`
	Chats   []ChatView `json:"chats"`
}

type StatusMessage struct {
	Message string `json:"message"`
}

type WebsiteContentResponse struct {
	Content string `json:"content"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
