package tui

import (
	"fmt"
	"io"

	"afaq/afaq/utils/color"
	"afaq/afaq/widget/controller"

	"github.com/AlecAivazis/survey/v2"
)

// Terminal is the controller.UI of the command-line widget.
type Terminal struct {
	out     io.Writer
	confirm func(prompt string) bool
}

// NewTerminal prompts with survey. A nil confirm uses survey's yes/no question.
func NewTerminal(out io.Writer, confirm func(prompt string) bool) *Terminal {
	if confirm == nil {
		confirm = surveyConfirm
	}
	return &Terminal{out: out, confirm: confirm}
}

func surveyConfirm(prompt string) bool {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: prompt}, &ok); err != nil {
		return false
	}
	return ok
}

func (t *Terminal) Confirm(prompt string) bool {
	return t.confirm(prompt)
}

func (t *Terminal) Notify(kind controller.NoticeKind, message string) {
	switch kind {
	case controller.NoticeSuccess:
		fmt.Fprintln(t.out, color.ColorSuccess("✔ "+message))
	case controller.NoticeError:
		fmt.Fprintln(t.out, color.ColorError("✖ "+message))
	default:
		fmt.Fprintln(t.out, color.ColorInfo(message))
	}
}
