package diff

import "github.com/declmig/declmig/internal/schema"

// diffTable computes the operations for a table present in both models.
// A column present on both sides with a changed type or nullability
// yields an Alter operation rather than drop+add, so existing data is
// preserved.
func diffTable(old, new schema.Table) []Op {
	var ops []Op

	for _, c := range new.Columns {
		prev, ok := old.Column(c.Name)
		if !ok {
			ops = append(ops, addColumnOps(new, c)...)
			continue
		}

		ops = append(ops, alterColumnOps(new.Name, prev, c)...)
	}

	for _, c := range old.Columns {
		if _, ok := new.Column(c.Name); !ok {
			ops = append(ops, Op{Kind: DropColumn, TableName: old.Name, Column: c})
		}
	}

	ops = append(ops, diffForeignKeys(old, new)...)
	ops = append(ops, diffUniques(old, new)...)

	return ops
}

// addColumnOps emits the AddColumn plus, when the new column carries a
// foreign key, the constraint that goes with it.
func addColumnOps(t schema.Table, c schema.Column) []Op {
	ops := []Op{{Kind: AddColumn, TableName: t.Name, Column: c}}

	if fk, ok := t.ForeignKeyOn(c.Name); ok {
		ops = append(ops, Op{Kind: AddForeignKey, TableName: t.Name, FK: fk})
	}

	return ops
}

func alterColumnOps(table string, prev, c schema.Column) []Op {
	var ops []Op

	if prev.Type != c.Type {
		ops = append(ops, Op{
			Kind:      AlterColumnType,
			TableName: table,
			OldColumn: prev,
			Column:    c,
		})
	}

	if prev.Nullable != c.Nullable {
		ops = append(ops, Op{
			Kind:      AlterColumnNullability,
			TableName: table,
			OldColumn: prev,
			Column:    c,
		})
	}

	if !prev.Unique && c.Unique {
		ops = append(ops, Op{Kind: AddUnique, TableName: table, Columns: []string{c.Name}})
	}

	if prev.Unique && !c.Unique {
		ops = append(ops, Op{Kind: DropUnique, TableName: table, Columns: []string{c.Name}})
	}

	return ops
}

// diffForeignKeys compares per-column foreign keys. Columns dropped
// from the table shed their constraints implicitly, so only surviving
// columns are considered.
func diffForeignKeys(old, new schema.Table) []Op {
	var ops []Op

	for _, fk := range old.ForeignKeys {
		if _, survives := new.Column(fk.Column); !survives {
			continue
		}

		cur, ok := new.ForeignKeyOn(fk.Column)
		if !ok {
			ops = append(ops, Op{Kind: DropForeignKey, TableName: old.Name, FK: fk})
			continue
		}

		if cur != fk {
			ops = append(ops,
				Op{Kind: DropForeignKey, TableName: old.Name, FK: fk},
				Op{Kind: AddForeignKey, TableName: new.Name, FK: cur},
			)
		}
	}

	for _, fk := range new.ForeignKeys {
		if _, existed := old.Column(fk.Column); !existed {
			continue // handled with the AddColumn
		}

		if _, had := old.ForeignKeyOn(fk.Column); !had {
			ops = append(ops, Op{Kind: AddForeignKey, TableName: new.Name, FK: fk})
		}
	}

	return ops
}

// diffUniques compares table-level composite unique constraints.
func diffUniques(old, new schema.Table) []Op {
	var ops []Op

	for _, u := range old.Uniques {
		if !containsUnique(new.Uniques, u) {
			ops = append(ops, Op{Kind: DropUnique, TableName: old.Name, Columns: u})
		}
	}

	for _, u := range new.Uniques {
		if !containsUnique(old.Uniques, u) {
			ops = append(ops, Op{Kind: AddUnique, TableName: new.Name, Columns: u})
		}
	}

	return ops
}

func containsUnique(set [][]string, want []string) bool {
	for _, u := range set {
		if sameColumns(u, want) {
			return true
		}
	}

	return false
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
