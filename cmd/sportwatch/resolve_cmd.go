package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/sportwatch/internal/organizer"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
	"github.com/Nomadcxx/sportwatch/internal/slots"
	"github.com/Nomadcxx/sportwatch/internal/ui"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Show how filenames would be resolved, without moving anything",
		Long: `Resolve runs the extraction pipeline against the given paths and prints
every field with its confidence, the aggregate score, and the verdict.

Nothing is moved; this is the tool for understanding why a file was
quarantined or how a new sport ruleset behaves.

Examples:
  sportwatch resolve /downloads/WWE.RAW.2024.01.15.720p.x264-GRP.mkv
  sportwatch resolve --sport wrestling ambiguous.file.mkv`,
		Args: cobra.MinimumNArgs(1),
		RunE: runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	env, err := buildEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	for i, path := range args {
		if i > 0 {
			fmt.Println()
		}
		res := env.pipeline.Resolve(cmd.Context(), path)
		printResult(res)
	}
	return nil
}

func printResult(res *resolver.Result) {
	fmt.Println(ui.Path(res.Path))

	table := ui.NewTable("FIELD", "VALUE", "CONFIDENCE")
	for _, field := range slots.Fields {
		slot := res.Record.Get(field)
		if !slot.Filled() {
			continue
		}
		table.AddRow(field, slot.Value(), fmt.Sprintf("%d", slot.Confidence()))
	}
	table.Render()

	switch res.Outcome {
	case resolver.OutcomeRejected:
		fmt.Printf("verdict: %s (%s)\n", ui.Rejected("rejected"), res.RejectReason)
		return
	case resolver.OutcomeQuarantined:
		fmt.Printf("verdict: %s", ui.Quarantined("quarantine"))
		if res.Decision.ForcedBy != "" {
			fmt.Printf(" (unresolved %s)", res.Decision.ForcedBy)
		}
		fmt.Printf(", score %.2f\n", res.Decision.Score)
	default:
		fmt.Printf("verdict: %s, score %.2f\n", ui.Accepted("accept"), res.Decision.Score)
		fmt.Printf("name:    %s\n", organizer.AssembleName(res.Record))
	}
}
