package cli

import (
	"fmt"
	"io"

	"github.com/andy/clientbook/internal/domain"
	"github.com/andy/clientbook/internal/format"
)

// printClientTable writes the client list; an empty filter lists everyone.
// Indexes always refer to the unfiltered list.
func printClientTable(w io.Writer, clients []*domain.Client, filter domain.Tag, currency string) {
	if len(clients) == 0 {
		fmt.Fprintln(w, "No clients found")
		return
	}

	fmt.Fprintf(w, "%-5s %-30s %-15s %-20s %15s\n", "#", "Name", "Phone", "Tags", "Net")
	fmt.Fprintln(w, "------------------------------------------------------------------------------------------")

	shown := 0
	for i, client := range clients {
		if filter != "" && !client.HasTag(filter) {
			continue
		}
		shown++
		fmt.Fprintf(w, "%-5d %-30s %-15s %-20s %15s\n",
			i+1,
			truncate(client.Name().String(), 30),
			client.Phone(),
			truncate(joinTags(client.Tags()), 20),
			totalOf(client, currency),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d client(s)\n", shown)
}

// printClientDetail writes one client with its pocs and transactions
func printClientDetail(w io.Writer, client *domain.Client, currency string) {
	fmt.Fprintf(w, "%s\n", client.Name())
	fmt.Fprintf(w, "  Address: %s\n", client.Address())
	if client.Phone() != "" {
		fmt.Fprintf(w, "  Phone:   %s\n", client.Phone())
	}
	if client.Email() != "" {
		fmt.Fprintf(w, "  Email:   %s\n", client.Email())
	}
	if tags := client.Tags(); len(tags) > 0 {
		fmt.Fprintf(w, "  Tags:    %s\n", joinTags(tags))
	}

	pocs := client.PocList()
	fmt.Fprintf(w, "\nPOCs (%d)\n", pocs.Len())
	for poc := range pocs.All() {
		fmt.Fprintf(w, "  - %s\n", poc)
	}

	fmt.Fprintf(w, "\nTransactions (%d)\n", client.TransactionCount())
	for tx := range client.Transactions() {
		fmt.Fprintf(w, "  %-10s %-4s %5d x %-20s @ %12s %14s\n",
			tx.Date.Format(),
			tx.Kind,
			tx.Quantity,
			truncate(tx.Goods.String(), 20),
			format.Money(tx.Price.Decimal(), currency),
			format.Money(tx.NetValue(), currency),
		)
	}

	fmt.Fprintf(w, "\nNet transacted: %s\n", totalOf(client, currency))
}
