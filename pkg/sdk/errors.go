package employees

import "github.com/tananushka/employees/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmployeeNotFound      = domain.ErrEmployeeNotFound
	ErrValidation            = domain.ErrValidation
	ErrUnsupportedQueryType  = domain.ErrUnsupportedQueryType
	ErrUnsupportedMetricType = domain.ErrUnsupportedMetricType
)
