package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"afaq/afaq/utils/color"
	"afaq/afaq/utils/logging"
	"afaq/afaq/widget/store"

	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"
)

const (
	typingIndicator = "Assistant is typing..."
	emptyChatsText  = "No chats yet"
	welcomeText     = "Hi! I'm the Afaq Tours assistant. Ask me about tours, packages or bookings."
)

// MarkdownRenderer turns assistant markdown into terminal output.
type MarkdownRenderer interface {
	Render(in string) (string, error)
}

// NewMarkdownRenderer returns a glamour renderer wrapping at width. Plain
// styling is used when colour is off.
func NewMarkdownRenderer(width int, colour bool) (MarkdownRenderer, error) {
	style := glamour.WithAutoStyle()
	if !colour {
		style = glamour.WithStandardStyle("notty")
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Renderer writes store changes to a terminal. It prints only what changed:
// new transcript entries, a header when the transcript is replaced, and the
// typing indicator when a send starts.
type Renderer struct {
	out io.Writer
	md  MarkdownRenderer

	mu       sync.Mutex
	started  bool
	chatID   string
	rendered []store.Message
	pending  bool
}

// NewRenderer writes to out. A nil md prints assistant text as is.
func NewRenderer(out io.Writer, md MarkdownRenderer) *Renderer {
	return &Renderer{out: out, md: md}
}

// Attach subscribes the renderer to s and draws the current state.
func (r *Renderer) Attach(s *store.ChatStore) func() {
	r.Render(s.Snapshot())
	return s.Subscribe(r.Render)
}

func (r *Renderer) isPrefix(msgs []store.Message) bool {
	if len(r.rendered) > len(msgs) {
		return false
	}
	for i, m := range r.rendered {
		if msgs[i] != m {
			return false
		}
	}
	return true
}

func (r *Renderer) Render(s store.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switched := len(r.rendered) == 0 && s.ActiveChatID != r.chatID
	if !r.started || switched || !r.isPrefix(s.Messages) {
		r.header(s)
		r.rendered = nil
		r.started = true
	}
	r.chatID = s.ActiveChatID

	for _, m := range s.Messages[len(r.rendered):] {
		r.message(m)
		r.rendered = append(r.rendered, m)
	}

	if s.Pending && !r.pending {
		fmt.Fprintln(r.out, color.ColorFaint(typingIndicator))
	}
	r.pending = s.Pending
}

func (r *Renderer) header(s store.Snapshot) {
	title := "New chat"
	if i := s.ChatIndex(s.ActiveChatID); i >= 0 {
		title = s.Chats[i].DisplayTitle()
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, color.ColorPrompt("── "+title+" ──"))
	if !s.HasActiveChat() && len(s.Messages) == 0 {
		fmt.Fprintln(r.out, color.ColorAssistant("Assistant: ")+welcomeText)
	}
}

func (r *Renderer) message(m store.Message) {
	if m.Role == store.RoleUser {
		fmt.Fprintln(r.out, color.ColorUser("You: ")+m.Text)
		return
	}
	text := m.Text
	if r.md != nil {
		out, err := r.md.Render(m.Text)
		if err != nil {
			logging.ErrorLogger.Warn("markdown render failed", zap.Error(err))
		} else {
			text = strings.Trim(out, "\n")
		}
	}
	fmt.Fprintln(r.out, color.ColorAssistant("Assistant:"))
	fmt.Fprintln(r.out, text)
}

// ChatList renders the numbered chat picker with the active chat marked.
func ChatList(s store.Snapshot) string {
	if len(s.Chats) == 0 {
		return emptyChatsText
	}
	var b strings.Builder
	for i, c := range s.Chats {
		marker := " "
		if c.ChatID == s.ActiveChatID {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s", marker, i+1, c.DisplayTitle())
		if c.CreatedAt != "" {
			b.WriteString(color.ColorFaint("  " + c.CreatedAt))
		}
		if i < len(s.Chats)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
