package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var colorized = isatty.IsTerminal(os.Stdout.Fd())

// DisableColors forces plain output regardless of the terminal.
func DisableColors() {
	colorized = false
	initStyles()
}

// IsTerminal reports whether styled, in-place output should be used.
func IsTerminal() bool {
	return colorized
}

// Section prints an uppercase section header.
func Section(title string) {
	fmt.Println()
	upper := strings.ToUpper(title)
	fmt.Println(upper)
	fmt.Println(strings.Repeat("-", len(upper)))
}

// FormatBytes renders a byte count for summaries, e.g. "1.4 GB".
func FormatBytes(n int64) string {
	return humanize.Bytes(uint64(n))
}

// FormatDuration renders a duration at the precision a scan summary needs.
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}

// Confirm asks a yes/no question on the terminal. Non-interactive runs
// answer no so scripts never destroy anything by default.
func Confirm(prompt string) bool {
	if !IsTerminal() {
		return false
	}
	fmt.Print(prompt + " (y/N): ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
