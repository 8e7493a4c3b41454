package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/andy/clientbook/internal/domain"
)

// timeLayout is the RFC3339 format for storing times in SQLite
const timeLayout = time.RFC3339

// tagSeparator joins poc tags into a single column; tags are alphanumeric
const tagSeparator = ","

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// parseTime parses a time string in RFC3339 format
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// formatTime returns the current time formatted as RFC3339
func formatTime() string {
	return time.Now().Format(timeLayout)
}

func joinTags(tags []domain.Tag) string {
	raw := make([]string, len(tags))
	for i, t := range tags {
		raw[i] = string(t)
	}
	return strings.Join(raw, tagSeparator)
}

func splitTags(s string) []domain.Tag {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, tagSeparator)
	tags := make([]domain.Tag, len(parts))
	for i, p := range parts {
		tags[i] = domain.Tag(p)
	}
	return tags
}
