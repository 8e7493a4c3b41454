package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  clientbook reset transactions   # Delete every recorded buy and sell
  clientbook reset all            # Wipe everything: clients, POCs, transactions`,
}

var resetTransactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "Delete all transactions, keeping clients and POCs",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL transactions. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := clearTables(cmd.Context(), "transactions"); err != nil {
			return err
		}

		fmt.Println("All transactions have been deleted.")
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: clients, POCs, transactions, everything",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL data (clients, POCs, transactions, everything). Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		// Order matters due to foreign keys
		if err := clearTables(cmd.Context(), "transactions", "pocs", "client_tags", "clients"); err != nil {
			return err
		}

		fmt.Println("All data has been deleted.")
		return nil
	},
}

func clearTables(ctx context.Context, tables ...string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := appInstance.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range tables {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	appInstance.Logger.Info("tables reset", zap.Strings("tables", tables))
	return nil
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func init() {
	resetCmd.AddCommand(resetTransactionsCmd)
	resetCmd.AddCommand(resetAllCmd)
}
