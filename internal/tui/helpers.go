package tui

import (
	"strings"

	"github.com/andy/clientbook/internal/domain"
	"github.com/andy/clientbook/internal/format"
	"github.com/shopspring/decimal"
)

// formatMoney renders amount in the configured display currency
func formatMoney(amount decimal.Decimal, currency string) string {
	return format.Money(amount, currency)
}

// formatTags renders tags as "[a] [b]"
func formatTags(tags []domain.Tag) string {
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
