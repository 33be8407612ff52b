package employee

import "strings"

// Kind is how a field is stored and what it can be queried with.
type Kind string

// Field kinds.
const (
	// Text fields are analyzed for match and kept verbatim for term.
	Text    Kind = "text"
	Integer Kind = "integer"
	Float   Kind = "float"
	Bool    Kind = "bool"
)

// KeywordSuffix addresses the untokenized variant of a text field.
const KeywordSuffix = ".keyword"

// Field describes one searchable attribute of the employee record.
type Field struct {
	Name  string
	Kind  Kind
	Multi bool // array of values
}

// Analyzed reports whether match and term compare differently on the field.
// Other kinds are always compared by exact value.
func (f Field) Analyzed() bool { return f.Kind == Text }

// Numeric reports whether avg/min/max can be computed over the field.
func (f Field) Numeric() bool { return f.Kind == Integer || f.Kind == Float }

// Fields is the catalog of indexed employee attributes, in document order.
var Fields = []Field{
	{Name: "name", Kind: Text},
	{Name: "dob", Kind: Text},
	{Name: "address.country", Kind: Text},
	{Name: "address.town", Kind: Text},
	{Name: "email", Kind: Text},
	{Name: "skills", Kind: Text, Multi: true},
	{Name: "experience", Kind: Integer},
	{Name: "rating", Kind: Float},
	{Name: "description", Kind: Text},
	{Name: "verified", Kind: Bool},
	{Name: "salary", Kind: Integer},
}

// LookupField finds a catalog field. A trailing ".keyword" is ignored.
func LookupField(name string) (Field, bool) {
	name = strings.TrimSuffix(name, KeywordSuffix)
	for _, f := range Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
