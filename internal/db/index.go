package db

import (
	"errors"
	"strconv"
	"strings"
)

// IndexFieldType enumerates supported index field types.
type IndexFieldType int

const (
	// IndexFieldText is an analyzed text field with an exact-match variant.
	IndexFieldText IndexFieldType = iota
	// IndexFieldInteger is an integer numeric field.
	IndexFieldInteger
	// IndexFieldFloat is a floating point numeric field.
	IndexFieldFloat
	// IndexFieldBool is a boolean field.
	IndexFieldBool
)

// String returns the lowercase name of the field type.
func (t IndexFieldType) String() string {
	switch t {
	case IndexFieldText:
		return "text"
	case IndexFieldInteger:
		return "integer"
	case IndexFieldFloat:
		return "float"
	case IndexFieldBool:
		return "bool"
	default:
		return "unknown"
	}
}

// IsNumeric reports whether metrics can be computed over the field type.
func (t IndexFieldType) IsNumeric() bool {
	return t == IndexFieldInteger || t == IndexFieldFloat
}

// IndexField describes a single field in an index schema.
// Name is the dotted document path (address.town).
type IndexField struct {
	Name  string
	Type  IndexFieldType
	Multi bool // the document holds an array of values
}

// IndexDefinition is a complete, driver-neutral index definition.
type IndexDefinition struct {
	Name   string
	Fields []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}

	seen := make(map[string]bool)
	for i := range idx.Fields {
		f := &idx.Fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i))
		}
		if !IsValidFieldPath(f.Name) {
			return errors.New("invalid field name: " + f.Name)
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + f.Name)
		}
		seen[f.Name] = true

		if f.Multi && f.Type != IndexFieldText {
			return errors.New("only text fields can hold arrays: " + f.Name)
		}
	}

	return nil
}

// Field returns the field definition by name.
func (idx *IndexDefinition) Field(name string) (IndexField, bool) {
	for _, f := range idx.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return IndexField{}, false
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}

// IsValidFieldPath returns true for dot-separated segments of [a-zA-Z0-9_].
func IsValidFieldPath(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, ".") {
		if seg == "" {
			return false
		}
		for _, r := range seg {
			isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
			isDigit := r >= '0' && r <= '9'
			if !isAlpha && !isDigit && r != '_' {
				return false
			}
		}
	}
	return true
}
