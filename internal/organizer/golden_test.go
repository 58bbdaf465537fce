package organizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Nomadcxx/sportwatch/internal/config"
	"github.com/Nomadcxx/sportwatch/internal/resolver"
)

// Golden end-to-end cases: raw release names through the full pipeline to
// the assembled library filename.
func TestGoldenNames(t *testing.T) {
	sport := &config.Sport{
		Name: "Wrestling",
		Leagues: []config.LeagueEntry{
			{Name: "WWE"},
			{Name: "AEW"},
		},
		LeaguePatterns: []string{`\b(WWE|AEW)\b`},
	}
	cfg := config.DefaultConfig()

	rules, err := resolver.NewRuleset(sport, cfg)
	require.NoError(t, err)

	opts := resolver.OptionsFromConfig(cfg)
	opts.ProbeEnabled = false
	pipeline := resolver.New(rules, nil, nil, opts, nil)

	tests := []struct {
		in   string
		want string
	}{
		{
			"WWE.Monday.Night.RAW.2024.01.15.1080p.WEB-DL.x264-VANiLLA.mkv",
			"WWE.2024-01-15.Monday-Night-RAW.WEB-DL.x264.1080p-VANiLLA.mkv",
		},
		{
			// Month-only date: the day is never invented.
			"AEW.Dark.2021.05.480p.DVDRip.XviD.mkv",
			"AEW.2021-05.Dark.DVDRip.XviD.480p.mkv",
		},
		{
			// Truncated year with a part letter.
			"WWE.Superstars.98.11.21b.avi",
			"WWE.1998-11-21.part-02.Superstars.avi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			res := pipeline.Resolve(t.Context(), tt.in)
			require.Equal(t, resolver.OutcomeAccepted, res.Outcome,
				"score %.2f forced by %q", res.Decision.Score, res.Decision.ForcedBy)
			require.Equal(t, tt.want, AssembleName(res.Record))
		})
	}
}
