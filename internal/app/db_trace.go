package app

import (
	"regexp"
	"strings"
)

const maxTracedQueryLength = 512

var (
	queryWhitespaceRegex = regexp.MustCompile(`\s+`)
	queryLiteralRegex    = regexp.MustCompile(`'(?:[^']|'')*'`)
	queryCommentRegex    = regexp.MustCompile(`--[^\n]*`)
)

// formatDBQueryForTrace flattens a query for the db.statement attribute. Quoted literals
// are masked so team names and contact details never reach the trace backend.
func formatDBQueryForTrace(query string) string {
	query = queryCommentRegex.ReplaceAllString(query, "")
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	normalized := queryLiteralRegex.ReplaceAllString(query, "'?'")
	normalized = queryWhitespaceRegex.ReplaceAllString(normalized, " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}

	return normalized[:maxTracedQueryLength] + "..."
}
