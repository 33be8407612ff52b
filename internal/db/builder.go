package db

import "strings"

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{
		def: IndexDefinition{Name: name},
	}
}

// Text adds a TEXT field with an exact-match variant.
func (b *IndexBuilder) Text(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name: name,
		Type: IndexFieldText,
	})
	return b
}

// TextArray adds a TEXT field holding an array of strings.
func (b *IndexBuilder) TextArray(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name:  name,
		Type:  IndexFieldText,
		Multi: true,
	})
	return b
}

// Integer adds an integer numeric field.
func (b *IndexBuilder) Integer(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name: name,
		Type: IndexFieldInteger,
	})
	return b
}

// Float adds a floating point numeric field.
func (b *IndexBuilder) Float(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name: name,
		Type: IndexFieldFloat,
	})
	return b
}

// Bool adds a boolean field.
func (b *IndexBuilder) Bool(name string) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, IndexField{
		Name: name,
		Type: IndexFieldBool,
	})
	return b
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}

// MustBuild calls Build and panics on error.
func (b *IndexBuilder) MustBuild() *IndexDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// String returns a compact debug representation of the definition.
func (idx *IndexDefinition) String() string {
	parts := []string{"INDEX", idx.Name, "SCHEMA"}
	for i := range idx.Fields {
		f := &idx.Fields[i]
		name := f.Name
		if f.Multi {
			name += "[]"
		}
		parts = append(parts, name, strings.ToUpper(f.Type.String()))
	}
	return strings.Join(parts, " ")
}
