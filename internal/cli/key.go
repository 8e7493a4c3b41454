package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andy/clientbook/internal/crypto"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the database encryption key",
	Long: `Manage the database encryption key held in the system keyring.

Examples:
  clientbook key status   # Show where the key comes from
  clientbook key forget   # Remove the stored key (you will be asked for it on next start)`,
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the system keyring is usable and where the key comes from",
	RunE: func(cmd *cobra.Command, args []string) error {
		printKeyStatus(os.Stdout, appInstance.Keyring)
		return nil
	},
}

var keyForgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Remove the database key from the system keyring",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Without the password the client book cannot be opened again.")
		if !confirmPrompt("Remove the stored key?") {
			fmt.Println("Cancelled.")
			return nil
		}
		return forgetKey(os.Stdout, appInstance.Keyring, appInstance.Logger)
	},
}

func printKeyStatus(w io.Writer, kr crypto.Keyring) {
	available := "no"
	if kr.IsAvailable() {
		available = "yes"
	}
	fmt.Fprintf(w, "Keyring available: %s\n", available)

	if os.Getenv(crypto.KeyEnvVar) != "" {
		fmt.Fprintf(w, "Key source:        %s\n", crypto.KeyEnvVar)
	} else {
		fmt.Fprintln(w, "Key source:        keyring")
	}
}

func forgetKey(w io.Writer, kr crypto.Keyring, logger *zap.Logger) error {
	if err := kr.DeleteKey(); err != nil {
		if errors.Is(err, crypto.ErrKeyNotFound) {
			fmt.Fprintln(w, "No key stored.")
			return nil
		}
		return err
	}
	logger.Info("database key removed from keyring")
	fmt.Fprintln(w, "Key removed.")
	return nil
}

func init() {
	keyCmd.AddCommand(keyStatusCmd)
	keyCmd.AddCommand(keyForgetCmd)
}
