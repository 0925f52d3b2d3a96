package tui

import (
	"fmt"
	"strconv"
	"strings"
)

type CommandKind int

const (
	CmdSend CommandKind = iota
	CmdNew
	CmdChats
	CmdSwitch
	CmdDelete
	CmdClear
	CmdHelp
	CmdQuit
)

// Command is one parsed input line. Index is 1-based and only set for
// CmdSwitch and CmdDelete.
type Command struct {
	Kind  CommandKind
	Index int
	Text  string
}

const helpText = `Commands:
  /new          start a new chat
  /chats        list your chats
  /switch N     open chat N from /chats
  /delete N     delete chat N (asks first)
  /clear        delete all chats (asks first)
  /help         show this help
  /quit         leave
Anything else is sent to the assistant.`

// ParseCommand interprets a line typed at the prompt. Lines that do not start
// with "/" are messages.
func ParseCommand(line string) (Command, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return Command{Kind: CmdSend, Text: line}, nil
	}

	fields := strings.Fields(trimmed)
	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "/new":
		return Command{Kind: CmdNew}, nil
	case "/chats", "/history":
		return Command{Kind: CmdChats}, nil
	case "/clear":
		return Command{Kind: CmdClear}, nil
	case "/help", "/?":
		return Command{Kind: CmdHelp}, nil
	case "/quit", "/exit":
		return Command{Kind: CmdQuit}, nil
	case "/switch", "/delete":
		kind := CmdSwitch
		if name == "/delete" {
			kind = CmdDelete
		}
		if len(args) != 1 {
			return Command{}, fmt.Errorf("usage: %s N", name)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return Command{}, fmt.Errorf("%q is not a chat number", args[0])
		}
		return Command{Kind: kind, Index: n}, nil
	default:
		return Command{}, fmt.Errorf("unknown command %s, try /help", name)
	}
}
