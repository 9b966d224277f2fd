// Command peoplestats computes and renders community people stats from a
// contributor JSON file, without the server.
//
//	peoplestats summary -f contributors.json --now 2024-03-15T12:00:00Z
//	peoplestats render  -f contributors.json -o dashboard.html
//	echo -n 's3cret' | peoplestats hash-password
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Atharva7126/community-dashboard/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
