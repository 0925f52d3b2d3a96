package color

import (
	"github.com/fatih/color"
)

var (
	promptColor    = color.New(color.FgCyan, color.Bold)
	infoColor      = color.New(color.FgBlue)
	successColor   = color.New(color.FgGreen, color.Bold)
	errorColor     = color.New(color.FgRed, color.Bold)
	userColor      = color.New(color.FgWhite, color.Bold)
	assistantColor = color.New(color.FgHiYellow, color.Bold)
	faintColor     = color.New(color.Faint, color.Italic)
)

// SetEnabled forces colour output on or off for every helper.
func SetEnabled(enabled bool) {
	color.NoColor = !enabled
}

func ColorPrompt(s string) string {
	return promptColor.Sprint(s)
}

func ColorInfo(s string) string {
	return infoColor.Sprint(s)
}

func ColorSuccess(s string) string {
	return successColor.Sprint(s)
}

func ColorError(s string) string {
	return errorColor.Sprint(s)
}

func ColorUser(s string) string {
	return userColor.Sprint(s)
}

func ColorAssistant(s string) string {
	return assistantColor.Sprint(s)
}

func ColorFaint(s string) string {
	return faintColor.Sprint(s)
}
