package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle     lipgloss.Style
	errorStyle       lipgloss.Style
	warningStyle     lipgloss.Style
	acceptedStyle    lipgloss.Style
	quarantinedStyle lipgloss.Style
	rejectedStyle    lipgloss.Style
	pathStyle        lipgloss.Style
)

func init() {
	initStyles()
}

func initStyles() {
	if !IsTerminal() {
		plain := lipgloss.NewStyle()
		successStyle = plain
		errorStyle = plain
		warningStyle = plain
		acceptedStyle = plain
		quarantinedStyle = plain
		rejectedStyle = plain
		pathStyle = plain
		return
	}

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	acceptedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	quarantinedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
}

// Accepted styles accepted-outcome text.
func Accepted(text string) string {
	return acceptedStyle.Render(text)
}

// Quarantined styles quarantined-outcome text.
func Quarantined(text string) string {
	return quarantinedStyle.Render(text)
}

// Rejected styles rejected-outcome text.
func Rejected(text string) string {
	return rejectedStyle.Render(text)
}

// Path styles a filesystem path.
func Path(text string) string {
	return pathStyle.Render(text)
}

// SuccessMsg prints a checkmarked success line.
func SuccessMsg(format string, args ...interface{}) {
	fmt.Println(successStyle.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// ErrorMsg prints a crossed error line.
func ErrorMsg(format string, args ...interface{}) {
	fmt.Println(errorStyle.Render("✗") + " " + fmt.Sprintf(format, args...))
}

// WarningMsg prints a warning line.
func WarningMsg(format string, args ...interface{}) {
	fmt.Println(warningStyle.Render("⚠") + " " + fmt.Sprintf(format, args...))
}
