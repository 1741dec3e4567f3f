package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	infoColor      = color.New(color.FgCyan)
	successColor   = color.New(color.FgGreen)
	warningColor   = color.New(color.FgYellow)
	errorColor     = color.New(color.FgRed)
	highlightColor = color.New(color.FgHiBlue)
)

func init() {
	// NO_COLOR and non-terminal stdout are handled by the color package
	if os.Getenv("FORCE_COLOR") != "" {
		color.NoColor = false
	}
}

// Info formats text with info color (cyan)
func Info(text string) string {
	return infoColor.Sprint(text)
}

// Success formats text with success color (green)
func Success(text string) string {
	return successColor.Sprint(text)
}

// Warning formats text with warning color (yellow)
func Warning(text string) string {
	return warningColor.Sprint(text)
}

// Error formats text with error color (red)
func Error(text string) string {
	return errorColor.Sprint(text)
}

// Highlight formats text with highlight color (bright blue)
func Highlight(text string) string {
	return highlightColor.Sprint(text)
}

// WarningFprintf writes a formatted warning line to w
func WarningFprintf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, Warning("WARNING: ")+format+"\n", args...)
}

// ErrorFprintf writes a formatted error line to w
func ErrorFprintf(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, Error("ERROR: ")+format+"\n", args...)
}

// SetColorOutput enables or disables color output
func SetColorOutput(enabled bool) {
	if !enabled {
		color.NoColor = true
	}
}

