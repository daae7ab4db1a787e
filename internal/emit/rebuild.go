package emit

import (
	"fmt"
	"strings"

	"github.com/declmig/declmig/internal/diff"
	"github.com/declmig/declmig/internal/schema"
)

// CreateAll renders the full creation SQL for a model, as if diffing it
// against the empty model. Reset uses it to rebuild a database from the
// latest snapshot alone, bypassing intermediate history.
func CreateAll(m schema.Model) string {
	up, _ := Render(diff.Compute(schema.NewModel(), m))

	return up
}

// DropAll renders unconditional drop statements for every table and
// enum in the model. IF EXISTS makes the script tolerant of objects
// that were already removed out-of-band, and CASCADE makes it
// insensitive to ordering.
func DropAll(m schema.Model) string {
	var stmts []string

	for _, name := range m.TableNames() {
		stmts = append(stmts, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", name))
	}

	for _, name := range m.EnumNames() {
		stmts = append(stmts, fmt.Sprintf("DROP TYPE IF EXISTS %s CASCADE;", name))
	}

	return strings.Join(stmts, "\n")
}
