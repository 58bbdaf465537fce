package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nomadcxx/sportwatch/internal/probe"
	"github.com/Nomadcxx/sportwatch/internal/ui"
)

func newProbeCmd() *cobra.Command {
	var binary string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Inspect video streams with ffprobe",
		Long: `Probe reports the codec, dimensions, and frame rate ffprobe sees in each
file. This is the same fallback the pipeline uses when a filename carries
no technical tokens.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prober := &probe.FFProbe{Binary: binary, Timeout: timeout}

			for _, path := range args {
				result, err := prober.Probe(cmd.Context(), path)
				if err != nil {
					ui.ErrorMsg("%s: %v", path, err)
					continue
				}
				fmt.Printf("%s\n", path)
				fmt.Printf("  codec:      %s\n", result.Codec)
				fmt.Printf("  dimensions: %dx%d (%s)\n", result.Width, result.Height,
					probe.ResolutionFromHeight(result.Height))
				if result.FPS > 0 {
					fmt.Printf("  frame rate: %.2f fps\n", result.FPS)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&binary, "binary", "", "ffprobe binary (default: ffprobe on PATH)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "probe timeout per file")
	return cmd
}
