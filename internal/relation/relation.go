// Package relation provides the runtime accessors behind relationship
// declarations. Each relationship is reconstructed from the stored
// foreign key on demand, as two independent lookup queries keyed by id,
// so no object cycles exist between the two sides.
//
// Row marshaling is owned by the caller; accessors return rows as
// map[string]any via pgx.
package relation

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Row is one table row keyed by column name.
type Row = map[string]any

// Querier is the subset of pgx needed by the accessors. Both
// *pgxpool.Pool and pgx.Tx satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ErrNotFound indicates a foreign key referenced a row that does not
// exist. Under intact referential integrity this is unreachable; it
// surfaces only when the database was modified out-of-band.
var ErrNotFound = errors.New("referenced row not found")

// ErrAttributeMismatch indicates Add was called with an attribute on an
// edge that declares none, or without one on an edge that requires it.
var ErrAttributeMismatch = errors.New("edge attribute mismatch")

// ManyToOne connects a child table holding a foreign key column to its
// parent table.
type ManyToOne struct {
	ChildTable  string
	ParentTable string
	// Column is the foreign key column on the child table.
	Column string
	// ParentKey is the parent's primary key column, usually "id".
	ParentKey string
}

// Parent returns the single parent row referenced by the given foreign
// key value. A missing parent is ErrNotFound.
func (r ManyToOne) Parent(ctx context.Context, db Querier, fk any) (Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", r.ParentTable, r.ParentKey)

	rows, err := db.Query(ctx, query, fk)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.ParentTable, err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scanning %s row: %w", r.ParentTable, err)
	}

	if len(collected) == 0 {
		return nil, fmt.Errorf("%s %s=%v: %w", r.ParentTable, r.ParentKey, fk, ErrNotFound)
	}

	return collected[0], nil
}

// Children returns all child rows whose foreign key equals the given
// parent id.
func (r ManyToOne) Children(ctx context.Context, db Querier, parentID any) ([]Row, error) {
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = $1", r.ChildTable, r.Column)

	rows, err := db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.ChildTable, err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scanning %s rows: %w", r.ChildTable, err)
	}

	return collected, nil
}

// OneToOne has the same column shape as ManyToOne but the foreign key
// carries a uniqueness constraint, so the parent side sees zero or one
// child.
type OneToOne struct {
	ChildTable  string
	ParentTable string
	Column      string
	ParentKey   string
}

// Parent behaves exactly like the many-to-one parent lookup.
func (r OneToOne) Parent(ctx context.Context, db Querier, fk any) (Row, error) {
	return ManyToOne(r).Parent(ctx, db, fk)
}

// Child returns the unique child row referencing the given parent id,
// or ok=false when there is none.
func (r OneToOne) Child(ctx context.Context, db Querier, parentID any) (Row, bool, error) {
	children, err := ManyToOne(r).Children(ctx, db, parentID)
	if err != nil {
		return nil, false, err
	}

	if len(children) == 0 {
		return nil, false, nil
	}

	return children[0], true, nil
}
