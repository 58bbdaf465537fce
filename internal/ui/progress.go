package ui

import "fmt"

// Counter is an in-place progress line for scans where the total is not
// known up front. It stays silent on non-terminal output.
type Counter struct {
	label   string
	printed bool
}

// NewCounter creates a progress counter with a fixed label.
func NewCounter(label string) *Counter {
	return &Counter{label: label}
}

// Set redraws the counter line with the current count.
func (c *Counter) Set(n int) {
	if !IsTerminal() {
		return
	}
	fmt.Printf("\r%s %d", c.label, n)
	c.printed = true
}

// Done terminates the counter line if anything was drawn.
func (c *Counter) Done() {
	if c.printed {
		fmt.Println()
	}
}
