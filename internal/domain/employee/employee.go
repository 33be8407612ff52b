package employee

import (
	"regexp"
	"time"

	"github.com/tananushka/employees/internal/domain"
)

// MaxIDLength is the longest accepted employee id.
const MaxIDLength = 256

// DateLayout is the format of the dob field.
const DateLayout = "2006-01-02"

// Rating bounds.
const (
	MinRating = 0
	MaxRating = 10
)

var (
	idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	// Collide with /api/employees/search and /api/employees/aggregate.
	reservedIDs = map[string]bool{"search": true, "aggregate": true}
)

// Address is the nested postal address of an employee.
type Address struct {
	Country string `json:"country,omitempty"`
	Town    string `json:"town,omitempty"`
}

// Employee is a single employee record as stored and served.
type Employee struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	DOB         string   `json:"dob,omitempty"`
	Address     *Address `json:"address,omitempty"`
	Email       string   `json:"email,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Experience  int      `json:"experience"`
	Rating      float64  `json:"rating"`
	Description string   `json:"description,omitempty"`
	Verified    bool     `json:"verified"`
	Salary      int      `json:"salary"`
}

// ValidateID checks id: ^[a-zA-Z0-9_-]+$, 1-256 chars, not reserved.
func ValidateID(id string) error {
	if id == "" {
		return domain.NewValidationError("id", "is required")
	}
	if len(id) > MaxIDLength {
		return domain.NewValidationError("id", "too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return domain.NewValidationError("id", "must be alphanumeric with underscores and hyphens")
	}
	if reservedIDs[id] {
		return domain.NewValidationError("id", "%q is reserved", id)
	}
	return nil
}

// Validate checks the record body. The id is checked separately because it
// comes from the path.
func (e *Employee) Validate() error {
	if e.DOB != "" {
		if _, err := time.Parse(DateLayout, e.DOB); err != nil {
			return domain.NewValidationError("dob", "must be a date in YYYY-MM-DD format")
		}
	}
	if e.Experience < 0 {
		return domain.NewValidationError("experience", "must not be negative")
	}
	if e.Salary < 0 {
		return domain.NewValidationError("salary", "must not be negative")
	}
	if e.Rating < MinRating || e.Rating > MaxRating {
		return domain.NewValidationError("rating", "must be between %d and %d", MinRating, MaxRating)
	}
	return nil
}

// WithID returns a copy of e carrying id.
func (e Employee) WithID(id string) Employee {
	e.ID = id
	if e.Skills != nil {
		e.Skills = append([]string(nil), e.Skills...)
	}
	if e.Address != nil {
		a := *e.Address
		e.Address = &a
	}
	return e
}
