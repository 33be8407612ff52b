package employee

import (
	"fmt"

	"github.com/tananushka/employees/internal/db"
	domemp "github.com/tananushka/employees/internal/domain/employee"
)

// buildIndex creates the IndexDefinition from the employee field catalog.
func buildIndex(name string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name)
	for _, f := range domemp.Fields {
		switch {
		case f.Kind == domemp.Text && f.Multi:
			b.TextArray(f.Name)
		case f.Kind == domemp.Text:
			b.Text(f.Name)
		case f.Kind == domemp.Integer:
			b.Integer(f.Name)
		case f.Kind == domemp.Float:
			b.Float(f.Name)
		case f.Kind == domemp.Bool:
			b.Bool(f.Name)
		default:
			return nil, fmt.Errorf("unknown field kind %q for %s", f.Kind, f.Name)
		}
	}

	def, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build index %s: %w", name, err)
	}
	return def, nil
}

// indexType maps a catalog kind to the index field type used by the drivers.
func indexType(k domemp.Kind) db.IndexFieldType {
	switch k {
	case domemp.Integer:
		return db.IndexFieldInteger
	case domemp.Float:
		return db.IndexFieldFloat
	case domemp.Bool:
		return db.IndexFieldBool
	default:
		return db.IndexFieldText
	}
}
