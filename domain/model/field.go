package model

import "fmt"

// Field is a named, typed column. It is immutable once constructed.
type Field struct {
	name      string
	fieldType FieldType
}

// NewField creates a new Field.
func NewField(name string, fieldType FieldType) Field {
	return Field{
		name:      name,
		fieldType: fieldType,
	}
}

// Name returns the column name
func (f Field) Name() string {
	return f.name
}

// Type returns the column type
func (f Field) Type() FieldType {
	return f.fieldType
}

// Equal compares fields by name and type.
func (f Field) Equal(f2 Field) bool {
	return f.name == f2.name && f.fieldType == f2.fieldType
}

// String returns a debug representation such as "age:INTEGER".
func (f Field) String() string {
	return fmt.Sprintf("%s:%s", f.name, f.fieldType)
}
