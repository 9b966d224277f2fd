package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Atharva7126/community-dashboard/internal/dashboard"
)

func newRenderCmd() *cobra.Command {
	var (
		input  string
		output string
		title  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the people-stats dashboard to a standalone HTML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			contributors, err := readContributors(cmd, input)
			if err != nil {
				return err
			}

			w := dashboard.New(contributors, dashboard.WithTitle(title))

			var out io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}

			counter := &countingWriter{w: out}
			if err := w.Render(counter); err != nil {
				return err
			}

			loggerFromContext(cmd.Context()).Info("dashboard rendered",
				slog.String("output", output),
				slog.String("size", humanize.Bytes(uint64(counter.n))),
			)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", "", "contributor JSON file (- for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output HTML file (default stdout)")
	cmd.Flags().StringVar(&title, "title", dashboard.DefaultTitle, "page title")

	return cmd
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
