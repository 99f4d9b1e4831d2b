package persistence

import (
	"strings"
)

// orderClause builds an ORDER BY clause from a whitelisted column.
// Unknown or empty columns fall back to fallback; ties are broken by id.
func orderClause(column string, descending bool, allowed map[string]bool, fallback string) string {
	column = strings.TrimSpace(column)
	if !allowed[column] {
		column = fallback
	}
	dir := "ASC"
	if descending {
		dir = "DESC"
	}
	if column == "id" {
		return "id " + dir
	}
	return column + " " + dir + ", id ASC"
}
