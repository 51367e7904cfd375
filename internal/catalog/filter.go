// Package catalog narrows a fetched record collection for display and export.
package catalog

import (
	"strings"

	"carmodel-inventory/internal/model"
)

// Filter returns the records whose model name or model code contains query,
// ignoring case, in their original order. An empty query returns records as is.
func Filter(records []model.Record, query string) []model.Record {
	if query == "" {
		return records
	}
	q := strings.ToLower(query)

	out := make([]model.Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.ModelName), q) ||
			strings.Contains(strings.ToLower(r.ModelCode), q) {
			out = append(out, r)
		}
	}
	return out
}
