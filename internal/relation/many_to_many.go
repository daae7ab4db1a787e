package relation

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// edgeAttrAlias keeps the edge attribute from clashing with a column of
// the same name on the related table.
const edgeAttrAlias = "_edge_attr"

// Edge is one related row, with the extra per-edge attribute when the
// relationship declares one.
type Edge struct {
	Row       Row
	Attribute any
}

// ManyToMany connects two tables through a dedicated join table whose
// two foreign key columns form a composite unique key.
type ManyToMany struct {
	LeftTable  string
	RightTable string
	JoinTable  string
	// LeftColumn and RightColumn are the join table's foreign key
	// columns pointing at each side.
	LeftColumn  string
	RightColumn string
	// LeftKey and RightKey are the primary key columns of each side,
	// usually "id".
	LeftKey  string
	RightKey string
	// AttributeColumn is the extra per-edge attribute column, empty
	// when the relationship declares none.
	AttributeColumn string
}

// Inverse returns the same relationship seen from the other side, so
// both ends expose identical operations.
func (r ManyToMany) Inverse() ManyToMany {
	return ManyToMany{
		LeftTable:       r.RightTable,
		RightTable:      r.LeftTable,
		JoinTable:       r.JoinTable,
		LeftColumn:      r.RightColumn,
		RightColumn:     r.LeftColumn,
		LeftKey:         r.RightKey,
		RightKey:        r.LeftKey,
		AttributeColumn: r.AttributeColumn,
	}
}

// List returns every row on the right side related to the given left
// id, with the edge attribute attached when one is declared.
func (r ManyToMany) List(ctx context.Context, db Querier, leftID any) ([]Edge, error) {
	attr := ""
	if r.AttributeColumn != "" {
		attr = fmt.Sprintf(", j.%s AS %s", r.AttributeColumn, edgeAttrAlias)
	}

	query := fmt.Sprintf(
		"SELECT t.*%s FROM %s j JOIN %s t ON t.%s = j.%s WHERE j.%s = $1 ORDER BY j.id",
		attr, r.JoinTable, r.RightTable, r.RightKey, r.RightColumn, r.LeftColumn,
	)

	rows, err := db.Query(ctx, query, leftID)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", r.JoinTable, err)
	}

	collected, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scanning %s rows: %w", r.JoinTable, err)
	}

	edges := make([]Edge, 0, len(collected))

	for _, row := range collected {
		edge := Edge{Row: row}

		if r.AttributeColumn != "" {
			edge.Attribute = row[edgeAttrAlias]
			delete(row, edgeAttrAlias)
		}

		edges = append(edges, edge)
	}

	return edges, nil
}

// Add creates an edge between the pair. The attribute is required
// exactly when the relationship declares an attribute column. A
// duplicate edge surfaces the database's uniqueness violation verbatim.
func (r ManyToMany) Add(ctx context.Context, db Querier, leftID, rightID any, attr ...any) error {
	if err := r.checkAttr(attr); err != nil {
		return err
	}

	var (
		query string
		args  []any
	)

	if r.AttributeColumn != "" {
		query = fmt.Sprintf("INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3)",
			r.JoinTable, r.LeftColumn, r.RightColumn, r.AttributeColumn)
		args = []any{leftID, rightID, attr[0]}
	} else {
		query = fmt.Sprintf("INSERT INTO %s (%s, %s) VALUES ($1, $2)",
			r.JoinTable, r.LeftColumn, r.RightColumn)
		args = []any{leftID, rightID}
	}

	if _, err := db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("adding %s edge: %w", r.JoinTable, err)
	}

	return nil
}

// Remove deletes the edge between the pair, reporting whether a row was
// actually deleted. Removing an absent edge is not an error; deletion
// is idempotent.
func (r ManyToMany) Remove(ctx context.Context, db Querier, leftID, rightID any) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1 AND %s = $2",
		r.JoinTable, r.LeftColumn, r.RightColumn)

	tag, err := db.Exec(ctx, query, leftID, rightID)
	if err != nil {
		return false, fmt.Errorf("removing %s edge: %w", r.JoinTable, err)
	}

	return tag.RowsAffected() > 0, nil
}

// SetAttribute updates the attribute on an existing edge, reporting
// whether the edge existed.
func (r ManyToMany) SetAttribute(ctx context.Context, db Querier, leftID, rightID, attr any) (bool, error) {
	if r.AttributeColumn == "" {
		return false, fmt.Errorf("%s declares no attribute: %w", r.JoinTable, ErrAttributeMismatch)
	}

	query := fmt.Sprintf("UPDATE %s SET %s = $3 WHERE %s = $1 AND %s = $2",
		r.JoinTable, r.AttributeColumn, r.LeftColumn, r.RightColumn)

	tag, err := db.Exec(ctx, query, leftID, rightID, attr)
	if err != nil {
		return false, fmt.Errorf("updating %s edge: %w", r.JoinTable, err)
	}

	return tag.RowsAffected() > 0, nil
}

func (r ManyToMany) checkAttr(attr []any) error {
	if r.AttributeColumn == "" && len(attr) > 0 {
		return fmt.Errorf("%s declares no attribute: %w", r.JoinTable, ErrAttributeMismatch)
	}

	if r.AttributeColumn != "" && len(attr) != 1 {
		return fmt.Errorf("%s requires an attribute: %w", r.JoinTable, ErrAttributeMismatch)
	}

	return nil
}
