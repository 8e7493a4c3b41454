package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andy/clientbook/internal/app"
	"github.com/andy/clientbook/internal/cli"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], app.New))
}

// run executes the CLI and returns the process exit code. The app is closed
// before run returns, whatever the outcome.
func run(ctx context.Context, args []string, newApp func(context.Context) (*app.App, error)) int {
	// If the user asked for help, avoid initializing the full app (which may prompt)
	if !wantsHelp(args) {
		a, err := newApp(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to initialize app: %v\n", err)
			return 1
		}
		defer a.Close()
		cli.SetApp(a)
	}

	if err := cli.Execute(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func wantsHelp(args []string) bool {
	for _, a := range args {
		if a == "-h" || a == "--help" || a == "help" {
			return true
		}
	}
	return false
}
