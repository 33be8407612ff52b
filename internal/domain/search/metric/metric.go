package metric

import (
	"fmt"
	"strings"

	"github.com/tananushka/employees/internal/domain"
)

// Type is a scalar aggregation computed by the search engine.
type Type string

// Metric type constants.
const (
	Avg Type = "avg"
	Min Type = "min"
	Max Type = "max"
)

// IsValid checks if the metric is one of the supported values.
func (t Type) IsValid() bool {
	return t == Avg || t == Min || t == Max
}

// Parse reads a metric type case-insensitively.
func Parse(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q (expected avg, min or max)", domain.ErrUnsupportedMetricType, s)
	}
	return t, nil
}
