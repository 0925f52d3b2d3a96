package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"afaq/afaq/utils/color"
	"afaq/afaq/widget/controller"
	"afaq/afaq/widget/pipeline"
)

const prompt = "afaq> "

// App runs the read-eval loop of the terminal widget.
type App struct {
	ctrl     *controller.Controller
	renderer *Renderer
	ui       controller.UI
	out      io.Writer
}

func NewApp(ctrl *controller.Controller, renderer *Renderer, ui controller.UI, out io.Writer) *App {
	return &App{ctrl: ctrl, renderer: renderer, ui: ui, out: out}
}

// Run initializes the controller and processes lines from in until EOF,
// /quit or ctx is done.
func (a *App) Run(ctx context.Context, in io.Reader) error {
	detach := a.renderer.Attach(a.ctrl.Store())
	defer detach()

	a.ctrl.Initialize(ctx)
	if len(a.ctrl.Store().Snapshot().Chats) == 0 {
		a.ui.Notify(controller.NoticeInfo, emptyChatsText)
	}
	fmt.Fprintln(a.out, color.ColorFaint("Type /help for commands."))

	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprint(a.out, color.ColorPrompt(prompt))
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			a.ui.Notify(controller.NoticeError, err.Error())
			continue
		}
		if cmd.Kind == CmdQuit {
			fmt.Fprintln(a.out, "Goodbye!")
			return nil
		}
		a.Execute(ctx, cmd)
	}
}

// Execute applies one command. Failures are reported through the UI.
func (a *App) Execute(ctx context.Context, cmd Command) {
	snap := a.ctrl.Store().Snapshot()
	switch cmd.Kind {
	case CmdSend:
		err := a.ctrl.Send(ctx, cmd.Text)
		if errors.Is(err, pipeline.ErrBusy) {
			a.ui.Notify(controller.NoticeInfo, "Still waiting for the previous reply.")
		}
	case CmdNew:
		a.ctrl.NewChat()
	case CmdChats:
		fmt.Fprintln(a.out, ChatList(snap))
	case CmdSwitch, CmdDelete:
		if cmd.Index > len(snap.Chats) {
			a.ui.Notify(controller.NoticeError, fmt.Sprintf("There is no chat %d. Use /chats to list them.", cmd.Index))
			return
		}
		chatID := snap.Chats[cmd.Index-1].ChatID
		if cmd.Kind == CmdSwitch {
			a.ctrl.SelectChat(ctx, chatID)
			return
		}
		_ = a.ctrl.DeleteChat(ctx, chatID)
	case CmdClear:
		_ = a.ctrl.ClearAll(ctx)
	case CmdHelp:
		fmt.Fprintln(a.out, helpText)
	}
}
