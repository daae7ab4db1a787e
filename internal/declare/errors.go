package declare

import "errors"

// ErrNoPrimaryKey indicates a table declaration has no primary key field.
var ErrNoPrimaryKey = errors.New("table declaration has no primary key field")

// ErrMultiplePrimaryKeys indicates a table declaration has more than one
// primary key field.
var ErrMultiplePrimaryKeys = errors.New("table declaration has multiple primary key fields")

// ErrUnknownRelationTarget indicates a relationship references a type that
// is not part of the declaration set.
var ErrUnknownRelationTarget = errors.New("relation targets an undeclared table")

// ErrAttributeNotEnum indicates a many-to-many edge attribute type is not a
// declared enum.
var ErrAttributeNotEnum = errors.New("many-to-many attribute is not a declared enum")

// ErrDuplicateTable indicates two declarations map to the same table name.
var ErrDuplicateTable = errors.New("duplicate table declaration")

// ErrDuplicateColumn indicates a table declaration produces two columns
// with the same name.
var ErrDuplicateColumn = errors.New("duplicate column in table declaration")

// ErrDuplicateEnum indicates two enum declarations share a name.
var ErrDuplicateEnum = errors.New("duplicate enum declaration")

// ErrUnknownEnum indicates a field references an enum type that is not part
// of the declaration set.
var ErrUnknownEnum = errors.New("field references an undeclared enum")
