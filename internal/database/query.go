package database

import (
	"strings"
)

// QueryBuilder rewrites ? placeholders into the dialect's syntax.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
//
//	input:    "SELECT * FROM seeds WHERE hash = ? AND seed = ?"
//	SQLite:   "SELECT * FROM seeds WHERE hash = ? AND seed = ?"
//	Postgres: "SELECT * FROM seeds WHERE hash = $1 AND seed = $2"
//
// Question marks inside string literals are not special-cased.
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	position := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		} else {
			result.WriteByte(query[i])
		}
	}
	return result.String()
}
