package request

import (
	"strings"

	"github.com/tananushka/employees/internal/domain"
	"github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/domain/search/metric"
)

// Aggregation is a validated metric over the employees whose field equals a value.
type Aggregation struct {
	field       string
	fieldKind   employee.Kind
	fieldValue  string
	metricType  metric.Type
	metricField string
}

// NewAggregation validates aggregation parameters. metricType is
// case-insensitive; field may be any catalog field and metricField must be
// numeric.
func NewAggregation(field, fieldValue, metricType, metricField string) (Aggregation, error) {
	t, err := metric.Parse(metricType)
	if err != nil {
		return Aggregation{}, err
	}
	f, err := catalogField("field", field)
	if err != nil {
		return Aggregation{}, err
	}
	v, err := typedValue("fieldValue", f, fieldValue)
	if err != nil {
		return Aggregation{}, err
	}

	if strings.TrimSpace(metricField) == "" {
		return Aggregation{}, domain.NewValidationError("metricField", "is required")
	}
	mf, ok := employee.LookupField(metricField)
	if !ok {
		return Aggregation{}, domain.NewValidationError("metricField", "unknown field %q", metricField)
	}
	if !mf.Numeric() {
		return Aggregation{}, domain.NewValidationError("metricField", "field %q is not numeric", metricField)
	}

	return Aggregation{
		field:       f.Name,
		fieldKind:   f.Kind,
		fieldValue:  v,
		metricType:  t,
		metricField: mf.Name,
	}, nil
}

// Field returns the filter field.
func (a Aggregation) Field() string { return a.field }

// FieldKind returns the catalog kind of the filter field.
func (a Aggregation) FieldKind() employee.Kind { return a.fieldKind }

// FieldValue returns the exact value the filter field must equal.
func (a Aggregation) FieldValue() string { return a.fieldValue }

// Metric returns the metric type.
func (a Aggregation) Metric() metric.Type { return a.metricType }

// MetricField returns the numeric field the metric is computed over.
func (a Aggregation) MetricField() string { return a.metricField }

// Name is the aggregation name sent to the engine: <metricType>_<metricField>.
func (a Aggregation) Name() string {
	return string(a.metricType) + "_" + a.metricField
}
