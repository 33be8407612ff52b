package mode

import (
	"fmt"
	"strings"

	"github.com/tananushka/employees/internal/domain"
)

// Mode selects how the search value is compared with the field.
type Mode string

// Search mode constants.
const (
	// Match is an analyzed full-text match.
	Match Mode = "match"
	// Term is an exact match on the untokenized field.
	Term Mode = "term"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Match || m == Term
}

// Parse reads a mode case-insensitively.
func Parse(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return "", fmt.Errorf("%w: %q (expected match or term)", domain.ErrUnsupportedQueryType, s)
	}
	return m, nil
}
