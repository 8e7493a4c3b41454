package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/andy/clientbook/internal/parser"
	"github.com/spf13/cobra"
)

// Commands below take the same prefixed arguments as the TUI command line.
// Flag parsing is disabled so values such as "p/-1" reach the parser intact.

var pocCmd = &cobra.Command{
	Use:                "poc INDEX n/NAME [p/PHONE] [e/EMAIL] [t/TAG]...",
	Short:              "Add a point of contact to a client",
	DisableFlagParsing: true,
	RunE:               runLine(parser.CommandPoc),
}

var buyCmd = &cobra.Command{
	Use:                "buy INDEX q/QUANTITY g/GOODS p/PRICE [d/DATE]",
	Short:              "Record goods bought from a client",
	DisableFlagParsing: true,
	RunE:               runLine(parser.CommandBuy),
}

var sellCmd = &cobra.Command{
	Use:                "sell INDEX q/QUANTITY g/GOODS p/PRICE [d/DATE]",
	Short:              "Record goods sold to a client",
	DisableFlagParsing: true,
	RunE:               runLine(parser.CommandSell),
}

var execCmd = &cobra.Command{
	Use:   "exec LINE",
	Short: "Run a raw command line (add, poc, buy, sell)",
	Long: `Run a command exactly as it would be typed in the TUI, for example:

  clientbook exec add n/Acme Corp a/1 Main St t/wholesale
  clientbook exec sell 1 q/3 g/widgets p/12.50 d/2024-05-17`,
	DisableFlagParsing: true,
	Args:               cobra.MinimumNArgs(1),
	RunE:               runLine(""),
}

// runLine prefixes args with word and executes the result
func runLine(word string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
			return cmd.Help()
		}

		line := strings.Join(args, " ")
		if word != "" {
			line = word + " " + line
		}

		res, err := appInstance.Run(context.Background(), line)
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s\n", res.Message)
		return nil
	}
}
