package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/andy/clientbook/internal/domain"
	"github.com/andy/clientbook/internal/format"
	"github.com/andy/clientbook/internal/parser"
	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `List, add, show, and delete clients. Clients are addressed by their 1-based index in the list.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		tag, _ := cmd.Flags().GetString("tag")

		clients, err := appInstance.ClientService.ListClients(ctx)
		if err != nil {
			return fmt.Errorf("failed to list clients: %w", err)
		}

		var filter domain.Tag
		if tag != "" {
			if filter, err = domain.NewTag(tag); err != nil {
				return err
			}
		}

		printClientTable(os.Stdout, clients, filter, appInstance.Config.Display.Currency)
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		address, _ := cmd.Flags().GetString("address")
		phone, _ := cmd.Flags().GetString("phone")
		email, _ := cmd.Flags().GetString("email")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		client, err := parser.ClientFromFields(args[0], address, phone, email, tags)
		if err != nil {
			return fmt.Errorf("invalid client: %w", err)
		}

		if err := appInstance.ClientService.AddClient(ctx, client); err != nil {
			return fmt.Errorf("failed to create client: %w", err)
		}

		fmt.Printf("✓ New client added: %s\n", client)
		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show [index]",
	Short: "Show a client with its POCs and transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid client index: %w", err)
		}

		client, err := appInstance.ClientService.GetClient(ctx, index)
		if err != nil {
			return err
		}

		printClientDetail(os.Stdout, client, appInstance.Config.Display.Currency)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete [index]",
	Short: "Delete a client with its POCs and transactions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid client index: %w", err)
		}

		client, err := appInstance.ClientService.GetClient(ctx, index)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete %s and all of its POCs and transactions?", client.Name())) {
			fmt.Println("Cancelled.")
			return nil
		}

		if _, err := appInstance.ClientService.DeleteClient(ctx, index); err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}

		fmt.Printf("✓ Client deleted: %s\n", client.Name())
		return nil
	},
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	// List flags
	clientsListCmd.Flags().String("tag", "", "Only list clients with this tag")

	// Add flags
	clientsAddCmd.Flags().String("address", "", "Client address (required)")
	clientsAddCmd.MarkFlagRequired("address")
	clientsAddCmd.Flags().String("phone", "", "Client phone number")
	clientsAddCmd.Flags().String("email", "", "Client email")
	clientsAddCmd.Flags().StringSlice("tag", nil, "Tag (repeatable)")

	// Delete flags
	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func joinTags(tags []domain.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// totalOf formats a client's net total in the display currency
func totalOf(c *domain.Client, currency string) string {
	return format.Money(c.TotalTransacted(), currency)
}
