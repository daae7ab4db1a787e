// Package sqlcheck validates generated migration SQL with the real
// PostgreSQL parser before it is committed to a snapshot or executed.
package sqlcheck

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/declmig/declmig/internal/emit"
)

// ParseResult holds the parsed AST and original SQL.
type ParseResult struct {
	Stmts []*pg_query.RawStmt
	SQL   string
}

// Parse parses a PostgreSQL SQL script and returns the AST. Returns an
// empty result (zero statements) for empty or whitespace-only input.
func Parse(sql string) (*ParseResult, error) {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return &ParseResult{SQL: sql}, nil
	}

	tree, err := pg_query.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parsing SQL: %w", err)
	}

	return &ParseResult{
		Stmts: tree.Stmts,
		SQL:   sql,
	}, nil
}

// Validate checks that every statement in the script parses. Emitted
// scripts must pass before a snapshot is committed; hand-edited scripts
// are checked again before execution.
func Validate(sql string) error {
	if _, err := Parse(sql); err != nil {
		return fmt.Errorf("generated SQL failed validation: %w", err)
	}

	return nil
}

// HasDefaultPlaceholder reports whether the script still contains the
// unedited default marker the emitter leaves on non-nullable columns
// without a declared default.
func HasDefaultPlaceholder(sql string) bool {
	return strings.Contains(sql, emit.DefaultPlaceholder)
}

// StatementCount returns the number of statements in the script.
func StatementCount(sql string) (int, error) {
	result, err := Parse(sql)
	if err != nil {
		return 0, err
	}

	return len(result.Stmts), nil
}
