package emit_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declmig/declmig/internal/diff"
	"github.com/declmig/declmig/internal/emit"
	"github.com/declmig/declmig/internal/schema"
)

func TestStatement_enum(t *testing.T) {
	t.Parallel()

	op := diff.Op{Kind: diff.CreateEnum, Enum: schema.Enum{Name: "role", Variants: []string{"admin", "member"}}}

	up, down := emit.Statement(op)

	assert.Equal(t, "CREATE TYPE role AS ENUM ('admin', 'member');", up)
	assert.Equal(t, "DROP TYPE role CASCADE;", down)

	// DropEnum is the exact mirror.
	op.Kind = diff.DropEnum
	up, down = emit.Statement(op)

	assert.Equal(t, "DROP TYPE role CASCADE;", up)
	assert.Equal(t, "CREATE TYPE role AS ENUM ('admin', 'member');", down)
}

func TestStatement_createTable(t *testing.T) {
	t.Parallel()

	op := diff.Op{Kind: diff.CreateTable, Table: schema.Table{
		Name: "projects",
		Columns: []schema.Column{
			{Name: "id", Type: schema.TypeSerial, PrimaryKey: true},
			{Name: "title", Type: schema.TypeText},
			{Name: "notes", Type: schema.TypeText, Nullable: true},
			{Name: "owner", Type: schema.TypeInteger},
		},
		ForeignKeys: []schema.ForeignKey{
			{Column: "owner", TargetTable: "users", TargetColumn: "id"},
		},
	}}

	up, down := emit.Statement(op)

	want := `CREATE TABLE projects (
    id SERIAL PRIMARY KEY,
    title TEXT NOT NULL,
    notes TEXT,
    owner INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE
);`
	assert.Equal(t, want, up)
	assert.Equal(t, "DROP TABLE projects CASCADE;", down)
}

func TestStatement_createTable_compositeUnique(t *testing.T) {
	t.Parallel()

	op := diff.Op{Kind: diff.CreateTable, Table: schema.Table{
		Name: "projects_users_join",
		Columns: []schema.Column{
			{Name: "id", Type: schema.TypeSerial, PrimaryKey: true},
			{Name: "projects_id", Type: schema.TypeInteger},
			{Name: "users_id", Type: schema.TypeInteger},
		},
		ForeignKeys: []schema.ForeignKey{
			{Column: "projects_id", TargetTable: "projects", TargetColumn: "id"},
			{Column: "users_id", TargetTable: "users", TargetColumn: "id"},
		},
		Uniques: [][]string{{"projects_id", "users_id"}},
	}}

	up, _ := emit.Statement(op)

	assert.Contains(t, up, "UNIQUE (projects_id, users_id)")
	assert.Contains(t, up, "projects_id INTEGER NOT NULL REFERENCES projects (id) ON DELETE CASCADE")
}

func TestStatement_createTable_uniqueAndDefault(t *testing.T) {
	t.Parallel()

	op := diff.Op{Kind: diff.CreateTable, Table: schema.Table{
		Name: "users",
		Columns: []schema.Column{
			{Name: "id", Type: schema.TypeSerial, PrimaryKey: true},
			{Name: "username", Type: schema.TypeText, Unique: true},
			{Name: "active", Type: schema.TypeBoolean, Default: "TRUE"},
		},
	}}

	up, _ := emit.Statement(op)

	assert.Contains(t, up, "username TEXT NOT NULL UNIQUE")
	assert.Contains(t, up, "active BOOLEAN NOT NULL DEFAULT TRUE")
}

func TestStatement_addColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		column schema.Column
		want   string
	}{
		{
			name:   "nullable column",
			column: schema.Column{Name: "notes", Type: schema.TypeText, Nullable: true},
			want:   "ALTER TABLE users ADD COLUMN notes TEXT;",
		},
		{
			name:   "non-nullable with default",
			column: schema.Column{Name: "age", Type: schema.TypeInteger, Default: "0"},
			want:   "ALTER TABLE users ADD COLUMN age INTEGER NOT NULL DEFAULT 0;",
		},
		{
			name:   "non-nullable without default gets placeholder",
			column: schema.Column{Name: "age", Type: schema.TypeInteger},
			want:   "ALTER TABLE users ADD COLUMN age INTEGER NOT NULL DEFAULT NULL " + emit.DefaultPlaceholder + ";",
		},
		{
			name:   "unique column",
			column: schema.Column{Name: "email", Type: schema.TypeText, Nullable: true, Unique: true},
			want:   "ALTER TABLE users ADD COLUMN email TEXT UNIQUE;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			up, down := emit.Statement(diff.Op{Kind: diff.AddColumn, TableName: "users", Column: tt.column})

			assert.Equal(t, tt.want, up)
			assert.Equal(t, "ALTER TABLE users DROP COLUMN "+tt.column.Name+";", down)
		})
	}
}

func TestStatement_alterColumnType(t *testing.T) {
	t.Parallel()

	op := diff.Op{
		Kind:      diff.AlterColumnType,
		TableName: "users",
		OldColumn: schema.Column{Name: "age", Type: schema.TypeInteger},
		Column:    schema.Column{Name: "age", Type: schema.TypeBigInt},
	}

	up, down := emit.Statement(op)

	assert.Equal(t, "ALTER TABLE users ALTER COLUMN age TYPE BIGINT;", up)
	assert.Equal(t, "ALTER TABLE users ALTER COLUMN age TYPE INTEGER;", down)
}

func TestStatement_alterColumnNullability(t *testing.T) {
	t.Parallel()

	op := diff.Op{
		Kind:      diff.AlterColumnNullability,
		TableName: "users",
		OldColumn: schema.Column{Name: "bio", Type: schema.TypeText},
		Column:    schema.Column{Name: "bio", Type: schema.TypeText, Nullable: true},
	}

	up, down := emit.Statement(op)

	assert.Equal(t, "ALTER TABLE users ALTER COLUMN bio DROP NOT NULL;", up)
	assert.Equal(t, "ALTER TABLE users ALTER COLUMN bio SET NOT NULL;", down)
}

func TestStatement_uniqueConstraint(t *testing.T) {
	t.Parallel()

	op := diff.Op{Kind: diff.AddUnique, TableName: "users", Columns: []string{"email", "tenant"}}

	up, down := emit.Statement(op)

	assert.Equal(t, "ALTER TABLE users ADD CONSTRAINT users_email_tenant_key UNIQUE (email, tenant);", up)
	assert.Equal(t, "ALTER TABLE users DROP CONSTRAINT users_email_tenant_key;", down)

	op.Kind = diff.DropUnique
	up2, down2 := emit.Statement(op)

	assert.Equal(t, down, up2)
	assert.Equal(t, up, down2)
}

func TestStatement_foreignKeyConstraint(t *testing.T) {
	t.Parallel()

	op := diff.Op{
		Kind:      diff.AddForeignKey,
		TableName: "projects",
		FK:        schema.ForeignKey{Column: "owner", TargetTable: "users", TargetColumn: "id"},
	}

	up, down := emit.Statement(op)

	assert.Equal(t,
		"ALTER TABLE projects ADD CONSTRAINT projects_owner_fkey "+
			"FOREIGN KEY (owner) REFERENCES users (id) ON DELETE CASCADE;", up)
	assert.Equal(t, "ALTER TABLE projects DROP CONSTRAINT projects_owner_fkey;", down)
}

func TestRender_downReversesOperationOrder(t *testing.T) {
	t.Parallel()

	users := schema.Table{Name: "users", Columns: []schema.Column{{Name: "id", Type: schema.TypeSerial, PrimaryKey: true}}}
	projects := schema.Table{
		Name: "projects",
		Columns: []schema.Column{
			{Name: "id", Type: schema.TypeSerial, PrimaryKey: true},
			{Name: "owner", Type: schema.TypeInteger},
		},
		ForeignKeys: []schema.ForeignKey{{Column: "owner", TargetTable: "users", TargetColumn: "id"}},
	}

	up, down := emit.Render([]diff.Op{
		{Kind: diff.CreateTable, Table: users},
		{Kind: diff.CreateTable, Table: projects},
	})

	assert.Less(t, strings.Index(up, "CREATE TABLE users"), strings.Index(up, "CREATE TABLE projects"))
	assert.Less(t, strings.Index(down, "DROP TABLE projects"), strings.Index(down, "DROP TABLE users"))
}

func TestRender_empty(t *testing.T) {
	t.Parallel()

	up, down := emit.Render(nil)

	assert.Empty(t, up)
	assert.Empty(t, down)
}

func TestTypeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  schema.Type
		want string
	}{
		{schema.TypeSerial, "SERIAL"},
		{schema.TypeInteger, "INTEGER"},
		{schema.TypeBigInt, "BIGINT"},
		{schema.TypeDouble, "DOUBLE PRECISION"},
		{schema.TypeText, "TEXT"},
		{schema.TypeBoolean, "BOOLEAN"},
		{schema.TypeJSON, "JSONB"},
		{schema.TypeUUID, "UUID"},
		{schema.TypeTimestamp, "TIMESTAMP"},
		{schema.TypeTimestampTZ, "TIMESTAMPTZ"},
		{schema.TypeDate, "DATE"},
		{schema.TypeTime, "TIME"},
		{schema.TypeBytes, "BYTEA"},
		{schema.EnumType("role"), "role"},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, emit.TypeName(tt.typ))
		})
	}
}

func TestStatement_enumColumnUsesTypeName(t *testing.T) {
	t.Parallel()

	op := diff.Op{Kind: diff.AddColumn, TableName: "tasks", Column: schema.Column{
		Name:     "status",
		Type:     schema.EnumType("status"),
		Nullable: true,
	}}

	up, _ := emit.Statement(op)

	assert.Equal(t, "ALTER TABLE tasks ADD COLUMN status status;", up)
}

func TestStatement_upAndDownAreExactInverses(t *testing.T) {
	t.Parallel()

	table := schema.Table{Name: "users", Columns: []schema.Column{{Name: "id", Type: schema.TypeSerial, PrimaryKey: true}}}

	ops := []struct {
		forward diff.Op
		inverse diff.Op
	}{
		{
			forward: diff.Op{Kind: diff.CreateTable, Table: table},
			inverse: diff.Op{Kind: diff.DropTable, Table: table},
		},
		{
			forward: diff.Op{Kind: diff.AddColumn, TableName: "users", Column: schema.Column{Name: "bio", Type: schema.TypeText, Nullable: true}},
			inverse: diff.Op{Kind: diff.DropColumn, TableName: "users", Column: schema.Column{Name: "bio", Type: schema.TypeText, Nullable: true}},
		},
		{
			forward: diff.Op{Kind: diff.AddUnique, TableName: "users", Columns: []string{"bio"}},
			inverse: diff.Op{Kind: diff.DropUnique, TableName: "users", Columns: []string{"bio"}},
		},
	}

	for _, pair := range ops {
		fUp, fDown := emit.Statement(pair.forward)
		iUp, iDown := emit.Statement(pair.inverse)

		require.Equal(t, fUp, iDown)
		require.Equal(t, fDown, iUp)
	}
}

func TestRender_enumVariantChange_dropsOldTypeFirst(t *testing.T) {
	t.Parallel()

	old := schema.NewModel()
	old.Enums["role"] = schema.Enum{Name: "role", Variants: []string{"admin"}}

	updated := schema.NewModel()
	updated.Enums["role"] = schema.Enum{Name: "role", Variants: []string{"admin", "member"}}

	up, down := emit.Render(diff.Compute(old, updated))

	// Dropping the old type before creating the new one keeps both
	// scripts applicable: the CREATE never collides with an existing
	// type, and neither script ends by destroying what it just built.
	assert.Equal(t, "DROP TYPE role CASCADE;\nCREATE TYPE role AS ENUM ('admin', 'member');", up)
	assert.Equal(t, "DROP TYPE role CASCADE;\nCREATE TYPE role AS ENUM ('admin');", down)
}
