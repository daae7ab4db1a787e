package emit

import "github.com/declmig/declmig/internal/schema"

// typeNames maps semantic column types to PostgreSQL type names. The
// mapping is fixed and total over the supported types.
var typeNames = map[schema.Type]string{ //nolint:gochecknoglobals // fixed lookup table
	schema.TypeSerial:      "SERIAL",
	schema.TypeInteger:     "INTEGER",
	schema.TypeBigInt:      "BIGINT",
	schema.TypeDouble:      "DOUBLE PRECISION",
	schema.TypeText:        "TEXT",
	schema.TypeBoolean:     "BOOLEAN",
	schema.TypeJSON:        "JSONB",
	schema.TypeUUID:        "UUID",
	schema.TypeTimestamp:   "TIMESTAMP",
	schema.TypeTimestampTZ: "TIMESTAMPTZ",
	schema.TypeDate:        "DATE",
	schema.TypeTime:        "TIME",
	schema.TypeBytes:       "BYTEA",
}

// TypeName returns the PostgreSQL type name for a semantic type. Enum
// references render as the enum's own type name.
func TypeName(t schema.Type) string {
	if enum, ok := t.EnumName(); ok {
		return enum
	}

	return typeNames[t]
}
