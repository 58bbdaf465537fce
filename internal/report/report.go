// Package report renders the outcome of a scan run as a plain-text report:
// per-outcome sections with source and target paths, then a totals line.
package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
	"github.com/Nomadcxx/sportwatch/internal/scanner"
	"github.com/Nomadcxx/sportwatch/internal/slots"
	"github.com/Nomadcxx/sportwatch/internal/ui"
)

// Options controls report rendering.
type Options struct {
	// Verbose includes per-field confidence breakdowns for quarantined files.
	Verbose bool
	// DryRun labels the report as a preview.
	DryRun bool
}

// Write renders the summary to w.
func Write(w io.Writer, summary *scanner.Summary, opts Options) error {
	title := "organize report"
	if opts.DryRun {
		title = "organize preview (dry run)"
	}
	fmt.Fprintf(w, "%s\n%s\n", strings.ToUpper(title), strings.Repeat("=", len(title)))

	actions := actionsBySource(summary)

	if n := writeOutcome(w, summary, actions, resolver.OutcomeAccepted, "Accepted", opts); n > 0 {
		fmt.Fprintln(w)
	}
	if n := writeOutcome(w, summary, actions, resolver.OutcomeQuarantined, "Quarantined", opts); n > 0 {
		fmt.Fprintln(w)
	}
	writeRejected(w, summary)
	writeErrors(w, summary)

	fmt.Fprintf(w, "\n%d scanned: %d accepted, %d quarantined, %d rejected, %d failed (%s in %s)\n",
		summary.Scanned, summary.Accepted, summary.Quarantined, summary.Rejected, summary.Failed,
		ui.FormatBytes(summary.Bytes), ui.FormatDuration(summary.Duration))
	return nil
}

func actionsBySource(summary *scanner.Summary) map[string]*organizer.Action {
	m := make(map[string]*organizer.Action, len(summary.Actions))
	for _, a := range summary.Actions {
		m[a.Source] = a
	}
	return m
}

func writeOutcome(w io.Writer, summary *scanner.Summary, actions map[string]*organizer.Action, outcome resolver.Outcome, label string, opts Options) int {
	count := 0
	for _, res := range summary.Results {
		if res.Outcome != outcome {
			continue
		}
		if count == 0 {
			fmt.Fprintf(w, "\n%s\n", label)
		}
		count++

		target := ""
		if a, ok := actions[res.Path]; ok {
			target = a.Target
		}
		fmt.Fprintf(w, "  %s\n", res.Path)
		if target != "" {
			fmt.Fprintf(w, "    -> %s\n", target)
		}
		if outcome == resolver.OutcomeQuarantined {
			fmt.Fprintf(w, "    score %.2f", res.Decision.Score)
			if res.Decision.ForcedBy != "" {
				fmt.Fprintf(w, ", unresolved: %s", res.Decision.ForcedBy)
			}
			fmt.Fprintln(w)
			if opts.Verbose {
				writeConfidences(w, res)
			}
		}
	}
	return count
}

func writeConfidences(w io.Writer, res *resolver.Result) {
	confs := res.Record.Confidences()
	for _, field := range slots.Fields {
		conf, ok := confs[field]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "      %-16s %3d  %s\n", field, conf, res.Record.Value(field))
	}
}

func writeRejected(w io.Writer, summary *scanner.Summary) {
	count := 0
	for _, res := range summary.Results {
		if res.Outcome != resolver.OutcomeRejected {
			continue
		}
		if count == 0 {
			fmt.Fprintf(w, "\nRejected\n")
		}
		count++
		fmt.Fprintf(w, "  %s (%s)\n", filepath.Base(res.Path), res.RejectReason)
	}
	if count > 0 {
		fmt.Fprintln(w)
	}
}

func writeErrors(w io.Writer, summary *scanner.Summary) {
	if len(summary.Errors) == 0 {
		return
	}
	fmt.Fprintf(w, "\nErrors\n")
	for _, err := range summary.Errors {
		fmt.Fprintf(w, "  %v\n", err)
	}
	fmt.Fprintln(w)
}
