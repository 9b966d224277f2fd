// Package cli implements the peoplestats command: the dashboard's summary and
// renderer run offline against a contributor JSON file.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Atharva7126/community-dashboard/internal/model"
)

type loggerKey struct{}

func withLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func loggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewRootCommand builds the command tree. Logs go to stderr so stdout stays
// clean for JSON and HTML output.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "peoplestats",
		Short:        "Compute and render community people stats",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSummaryCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newHashPasswordCmd())

	return root
}

// Execute runs the CLI with ctx.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// readContributors loads a contributor list from path, or stdin for "-".
func readContributors(cmd *cobra.Command, path string) ([]model.Contributor, error) {
	if path == "" {
		return nil, fmt.Errorf("an input file is required (-f, use - for stdin)")
	}

	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	contributors, err := model.DecodeContributors(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	loggerFromContext(cmd.Context()).Debug("contributors loaded",
		slog.String("source", path),
		slog.Int("count", len(contributors)),
	)
	return contributors, nil
}
