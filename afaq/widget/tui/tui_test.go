package tui

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"afaq/afaq/utils/color"
	"afaq/afaq/widget/controller"
	"afaq/afaq/widget/store"
	"afaq/afaq/widget/widgettest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.SetEnabled(false)
	os.Exit(m.Run())
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want Command
	}{
		{"hello there", Command{Kind: CmdSend, Text: "hello there"}},
		{"/new", Command{Kind: CmdNew}},
		{"  /CHATS ", Command{Kind: CmdChats}},
		{"/switch 2", Command{Kind: CmdSwitch, Index: 2}},
		{"/delete 1", Command{Kind: CmdDelete, Index: 1}},
		{"/clear", Command{Kind: CmdClear}},
		{"/quit", Command{Kind: CmdQuit}},
		{"/help", Command{Kind: CmdHelp}},
	}
	for _, tc := range cases {
		got, err := ParseCommand(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.want, got, tc.line)
	}

	for _, bad := range []string{"/switch", "/switch x", "/delete 0", "/bogus"} {
		_, err := ParseCommand(bad)
		assert.Error(t, err, bad)
	}
}

type upperMarkdown struct{}

func (upperMarkdown) Render(in string) (string, error) { return "\n" + strings.ToUpper(in) + "\n", nil }

func TestRendererPrintsOnlyNewMessages(t *testing.T) {
	var out bytes.Buffer
	s := store.New()
	r := NewRenderer(&out, upperMarkdown{})
	detach := r.Attach(s)
	defer detach()

	assert.Contains(t, out.String(), "── New chat ──")

	s.AppendMessage(store.Message{ID: 1, Role: store.RoleUser, Text: "hi"})
	s.SetPending(true)
	s.AppendMessage(store.Message{ID: 2, Role: store.RoleAssistant, Text: "**welcome**"})
	s.SetPending(false)

	text := out.String()
	assert.Equal(t, 1, strings.Count(text, "You: hi"))
	assert.Equal(t, 1, strings.Count(text, typingIndicator))
	assert.Contains(t, text, "**WELCOME**")

	// a switch replaces the transcript under a new header
	s.LoadChats([]store.ChatSummary{{ChatID: "c9", Title: "Safari"}})
	s.SelectChat("c9")
	assert.Contains(t, out.String(), "── Safari ──")
}

func TestChatList(t *testing.T) {
	assert.Equal(t, "No chats yet", ChatList(store.Snapshot{}))

	got := ChatList(store.Snapshot{
		ActiveChatID: "b",
		Chats:        []store.ChatSummary{{ChatID: "a", Title: "First"}, {ChatID: "b"}},
	})
	assert.Equal(t, "  1. First\n* 2. New Chat", got)
}

func TestTerminalNotify(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out, func(string) bool { return true })
	term.Notify(controller.NoticeSuccess, "Chat deleted")
	term.Notify(controller.NoticeError, "Failed")
	term.Notify(controller.NoticeInfo, "FYI")
	assert.True(t, term.Confirm("sure?"))
	assert.Equal(t, "✔ Chat deleted\n✖ Failed\nFYI\n", out.String())
}

func newTestApp(gw *widgettest.Gateway, confirm bool) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	term := NewTerminal(&out, func(string) bool { return confirm })
	ctrl := controller.New(store.New(), gw, term, nil)
	return NewApp(ctrl, NewRenderer(&out, nil), term, &out), &out
}

func TestAppSessionFlow(t *testing.T) {
	gw := &widgettest.Gateway{NewChatID: "c1"}
	app, out := newTestApp(gw, true)

	input := strings.Join([]string{
		"What tours do you have?",
		"/chats",
		"/switch 5",
		"/quit",
		"never sent",
	}, "\n")

	gw.BeforeSend = func(text, chatID string) {
		gw.Chats = []store.ChatSummary{{ChatID: "c1", Title: text}}
	}

	require.NoError(t, app.Run(context.Background(), strings.NewReader(input)))

	text := out.String()
	assert.Contains(t, text, "No chats yet")
	assert.Contains(t, text, "You: What tours do you have?")
	assert.Contains(t, text, "echo: What tours do you have?")
	assert.Contains(t, text, "* 1. What tours do you have?")
	assert.Contains(t, text, "There is no chat 5")
	assert.Contains(t, text, "Goodbye!")
	assert.Equal(t, 1, gw.Count("send_message"))
}

func TestAppDeleteAndClear(t *testing.T) {
	gw := &widgettest.Gateway{
		Chats: []store.ChatSummary{{ChatID: "a", Title: "A"}, {ChatID: "b", Title: "B"}},
		Histories: map[string][]store.Message{
			"a": {{ID: 0, Role: store.RoleUser, Text: "in a"}},
			"b": {{ID: 0, Role: store.RoleUser, Text: "in b"}},
		},
	}
	app, out := newTestApp(gw, true)
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, strings.NewReader("/switch 2\n/delete 1\n")))
	snap := app.ctrl.Store().Snapshot()
	assert.Equal(t, "b", snap.ActiveChatID)
	assert.Equal(t, []store.ChatSummary{{ChatID: "b", Title: "B"}}, snap.Chats)
	assert.Contains(t, out.String(), "You: in b")
	assert.Contains(t, out.String(), "Chat deleted")

	app.Execute(ctx, Command{Kind: CmdClear})
	snap = app.ctrl.Store().Snapshot()
	assert.Empty(t, snap.Chats)
	assert.False(t, snap.HasActiveChat())
	assert.Equal(t, 1, gw.Count("clear_all_chats"))
}

func TestAppDeclinedDeleteKeepsChat(t *testing.T) {
	gw := &widgettest.Gateway{Chats: []store.ChatSummary{{ChatID: "a", Title: "A"}}}
	app, _ := newTestApp(gw, false)
	require.NoError(t, app.Run(context.Background(), strings.NewReader("/delete 1\n")))
	assert.Equal(t, 0, gw.Count("delete_chat"))
	assert.Len(t, app.ctrl.Store().Snapshot().Chats, 1)
}
