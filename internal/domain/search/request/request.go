package request

import (
	"math"
	"strconv"
	"strings"

	"github.com/tananushka/employees/internal/domain"
	"github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/domain/search/mode"
)

// MaxValueLength is the maximum allowed search value length.
const MaxValueLength = 4096

// Request is a validated single-field employee search.
type Request struct {
	field      string
	kind       employee.Kind
	value      string
	searchMode mode.Mode
}

// New validates search parameters. queryType is case-insensitive; field must
// be a catalog field and may carry a ".keyword" suffix. Values of numeric and
// bool fields must parse as such.
func New(field, value, queryType string) (Request, error) {
	m, err := mode.Parse(queryType)
	if err != nil {
		return Request{}, err
	}
	f, err := catalogField("field", field)
	if err != nil {
		return Request{}, err
	}
	v, err := typedValue("value", f, value)
	if err != nil {
		return Request{}, err
	}
	return Request{field: f.Name, kind: f.Kind, value: v, searchMode: m}, nil
}

// Field returns the catalog field name, without any ".keyword" suffix.
func (r Request) Field() string { return r.field }

// Kind returns the catalog kind of the searched field.
func (r Request) Kind() employee.Kind { return r.kind }

// Value returns the searched value.
func (r Request) Value() string { return r.value }

// Mode returns the comparison mode.
func (r Request) Mode() mode.Mode { return r.searchMode }

func catalogField(param, name string) (employee.Field, error) {
	if strings.TrimSpace(name) == "" {
		return employee.Field{}, domain.NewValidationError(param, "is required")
	}
	f, ok := employee.LookupField(name)
	if !ok {
		return employee.Field{}, domain.NewValidationError(param, "unknown field %q", name)
	}
	return f, nil
}

// typedValue checks value against the field kind. Numbers and booleans are
// returned in canonical form; text is returned unchanged.
func typedValue(param string, f employee.Field, value string) (string, error) {
	if err := checkValue(param, value); err != nil {
		return "", err
	}

	switch f.Kind {
	case employee.Integer:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return "", domain.NewValidationError(param, "%q is not an integer (field %s)", value, f.Name)
		}
		return strconv.FormatInt(n, 10), nil
	case employee.Float:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return "", domain.NewValidationError(param, "%q is not a number (field %s)", value, f.Name)
		}
		return strconv.FormatFloat(n, 'f', -1, 64), nil
	case employee.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return "", domain.NewValidationError(param, "%q is not a boolean (field %s)", value, f.Name)
		}
		return strconv.FormatBool(b), nil
	default:
		return value, nil
	}
}

func checkValue(param, value string) error {
	if value == "" {
		return domain.NewValidationError(param, "is required")
	}
	if len(value) > MaxValueLength {
		return domain.NewValidationError(param, "too long (max %d chars)", MaxValueLength)
	}
	return nil
}
