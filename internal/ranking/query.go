// Package ranking turns extracted keyphrases into a provider query and
// orders fetched postings by semantic similarity to the source description.
package ranking

import "strings"

// BuildQuery joins keyphrases into a single search string. A non-empty
// location is appended as one more term, even when no keyphrases were
// extracted.
func BuildQuery(keyphrases []string, location string) string {
	query := strings.Join(keyphrases, " ")
	if location != "" {
		query += " " + location
	}

	return query
}
