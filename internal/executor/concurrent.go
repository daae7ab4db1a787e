package executor

import (
	"fmt"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"github.com/declmig/declmig/internal/sqlcheck"
)

// containsConcurrentIndex parses the SQL and returns true if any
// statement is a CREATE INDEX CONCURRENTLY. Generated scripts never
// contain one, but operators hand-edit migrations, and such statements
// cannot run inside a transaction block.
func containsConcurrentIndex(sql string) (bool, error) {
	result, err := sqlcheck.Parse(sql)
	if err != nil {
		return false, fmt.Errorf("parsing SQL for concurrent index detection: %w", err)
	}

	for _, stmt := range result.Stmts {
		node, ok := stmt.Stmt.Node.(*pg_query.Node_IndexStmt)
		if !ok {
			continue
		}

		if node.IndexStmt != nil && node.IndexStmt.Concurrent {
			return true, nil
		}
	}

	return false, nil
}
