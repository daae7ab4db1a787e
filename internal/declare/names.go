package declare

import (
	"strings"
	"unicode"
)

// SnakeCase converts a CamelCase type name to snake_case.
func SnakeCase(s string) string {
	var b strings.Builder

	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// TableName derives the table name for a declared type: snake_case,
// pluralized. "User" becomes "users", "ToDo" becomes "to_dos".
func TableName(typeName string) string {
	return SnakeCase(typeName) + "s"
}

// EnumName derives the database type name for a declared enum.
func EnumName(typeName string) string {
	return SnakeCase(typeName)
}

// JoinTableName derives the join table name hosting a many-to-many edge
// declared as a field on the owning side.
func JoinTableName(ownerTable, field string) string {
	return ownerTable + "_" + field + "_join"
}
