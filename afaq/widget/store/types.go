package store

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry. It is never modified after being appended.
type Message struct {
	ID   int64
	Role Role
	Text string
}

// ChatSummary lists one conversation; it carries no message bodies.
type ChatSummary struct {
	ChatID    string
	Title     string
	CreatedAt string
}

// DisplayTitle falls back to "New Chat" for untitled conversations.
func (c ChatSummary) DisplayTitle() string {
	if c.Title == "" {
		return "New Chat"
	}
	return c.Title
}

// Snapshot is an immutable copy of the store state handed to readers.
type Snapshot struct {
	// ActiveChatID is empty while the chat has not been created by the backend yet.
	ActiveChatID string
	Messages     []Message
	Chats        []ChatSummary
	Pending      bool
	Generation   uint64
}

func (s Snapshot) HasActiveChat() bool {
	return s.ActiveChatID != ""
}

// ChatIndex returns the position of chatID in Chats, or -1.
func (s Snapshot) ChatIndex(chatID string) int {
	for i, c := range s.Chats {
		if c.ChatID == chatID {
			return i
		}
	}
	return -1
}
