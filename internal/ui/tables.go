package ui

import (
	"fmt"
	"strings"
)

const maxCellWidth = 60

// Table renders column-aligned output without box borders, so it stays
// readable when piped into grep or a file.
type Table struct {
	headers []string
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers}
}

// AddRow appends a row. Missing cells render empty, extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = clip(cells[i])
		}
	}
	t.rows = append(t.rows, row)
}

// Render prints the table to stdout.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = len(h)
		for _, row := range t.rows {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	printRow := func(cells []string) {
		for i, cell := range cells {
			if i == len(cells)-1 {
				fmt.Println(cell)
				return
			}
			fmt.Printf("%-*s  ", widths[i], cell)
		}
	}

	printRow(t.headers)
	rules := make([]string, len(t.headers))
	for i, w := range widths {
		rules[i] = strings.Repeat("-", w)
	}
	printRow(rules)
	for _, row := range t.rows {
		printRow(row)
	}
}

func clip(s string) string {
	if len(s) <= maxCellWidth {
		return s
	}
	return s[:maxCellWidth-3] + "..."
}
