package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Atharva7126/community-dashboard/internal/auth"
)

// newHashPasswordCmd prints a bcrypt hash for ADMIN_PASSWORD_HASH. The
// password is read from the first line of stdin so it stays out of shell
// history.
func newHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Hash a password (read from stdin) for ADMIN_PASSWORD_HASH",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password from stdin: %w", err)
			}
			password := strings.TrimRight(line, "\r\n")

			hash, err := auth.NewPasswordServiceWithCost(cost).Hash(password)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}

	cmd.Flags().IntVar(&cost, "cost", auth.DefaultCost, "bcrypt cost")

	return cmd
}
