package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"auratrack_backend/internal/feature/entries/usecase"
)

func newInsightsCmd(opts *RootOptions) *cobra.Command {
	var (
		user, from, to string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Summarize a user's episodes (default: last 30 days)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var fromT, toT time.Time
			var err error
			if from != "" {
				if fromT, err = parseInstant("from", from); err != nil {
					return err
				}
			}
			if to != "" {
				if toT, err = parseInstant("to", to); err != nil {
					return err
				}
			}

			b, err := opts.connect(cmd)
			if err != nil {
				return err
			}
			defer opts.release(cmd)
			in, err := b.Insights.Summarize(cmd.Context(), user, fromT, toT)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(insightsJSON(in))
			}
			return printInsights(cmd.OutOrStdout(), in)
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Owner username (required)")
	cmd.Flags().StringVar(&from, "from", "", "Range start, RFC 3339")
	cmd.Flags().StringVar(&to, "to", "", "Range end, RFC 3339")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

type triggerCountJSON struct {
	Trigger string `json:"trigger"`
	Count   int    `json:"count"`
}

func insightsJSON(in *usecase.Insights) map[string]any {
	top := make([]triggerCountJSON, 0, len(in.TopTriggers))
	for _, t := range in.TopTriggers {
		top = append(top, triggerCountJSON{Trigger: t.Trigger, Count: t.Count})
	}
	return map[string]any{
		"from":               in.From.UTC().Format(time.RFC3339),
		"to":                 in.To.UTC().Format(time.RFC3339),
		"total_episodes":     in.TotalEpisodes,
		"avg_intensity":      in.AvgIntensity,
		"aura_rate_percent":  in.AuraRatePercent,
		"top_triggers":       top,
		"days_with_episodes": in.DaysWithEpisodes,
	}
}

func printInsights(w io.Writer, in *usecase.Insights) error {
	lines := []string{
		fmt.Sprintf("Window:             %s .. %s", in.From.UTC().Format(time.RFC3339), in.To.UTC().Format(time.RFC3339)),
		fmt.Sprintf("Episodes:           %d", in.TotalEpisodes),
		fmt.Sprintf("Average intensity:  %.1f", in.AvgIntensity),
		fmt.Sprintf("Aura rate:          %d%%", in.AuraRatePercent),
		fmt.Sprintf("Days with episodes: %d", in.DaysWithEpisodes),
	}
	if len(in.TopTriggers) > 0 {
		lines = append(lines, "Top triggers:")
		for _, t := range in.TopTriggers {
			lines = append(lines, fmt.Sprintf("  %-20s %d", t.Trigger, t.Count))
		}
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
