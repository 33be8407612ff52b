package employee

// Outcome is the result code of a write, as reported to clients.
type Outcome string

// Write outcomes.
const (
	Created  Outcome = "created"
	Updated  Outcome = "updated"
	Deleted  Outcome = "deleted"
	NotFound Outcome = "not_found"
)
