package common

import "fmt"

// Record is one row of the dataset. Records are never mutated after load;
// indexes only reorder copies of them.
type Record struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Major string `json:"major"`
}

// String 方便调试打印
func (r *Record) String() string {
	return fmt.Sprintf("Record{ID: %d, Name: %q, Major: %q}", r.ID, r.Name, r.Major)
}

// Field names a record attribute that can be matched by a scan.
type Field string

const (
	FieldID    Field = "id"
	FieldName  Field = "name"
	FieldMajor Field = "major"
)

// Value returns the attribute of r named by f, formatted as a string so that
// every field compares the same way.
func (f Field) Value(r *Record) (string, bool) {
	switch f {
	case FieldID:
		return fmt.Sprint(r.ID), true
	case FieldName:
		return r.Name, true
	case FieldMajor:
		return r.Major, true
	}
	return "", false
}

// ParseField maps a column name to a Field.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldID, FieldName, FieldMajor:
		return f, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}
