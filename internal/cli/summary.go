package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Atharva7126/community-dashboard/internal/stats"
)

func newSummaryCmd() *cobra.Command {
	var (
		input string
		now   string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the summary metrics of a contributor file as JSON",
		Long: `Print the summary metrics of a contributor file as JSON.

--now pins the reference time (RFC 3339) used for "active this week",
which makes the output reproducible.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if now != "" {
				t, err := time.Parse(time.RFC3339, now)
				if err != nil {
					return fmt.Errorf("invalid --now: %w", err)
				}
				at = t
			}

			contributors, err := readContributors(cmd, input)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats.Compute(contributors, at))
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", "", "contributor JSON file (- for stdin)")
	cmd.Flags().StringVar(&now, "now", "", "reference time, RFC 3339")

	return cmd
}
