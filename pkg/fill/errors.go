package fill

import (
	"errors"
	"fmt"
)

// StructuralIntegrityError reports an inconsistency between the parts of a
// deck package discovered while removing slides, such as a slide entry whose
// relationship is missing or a relationship that points at a part which no
// longer exists.
type StructuralIntegrityError struct {
	Part    string
	Message string
}

func (e *StructuralIntegrityError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("structural integrity error in '%s': %s", e.Part, e.Message)
	}
	return fmt.Sprintf("structural integrity error: %s", e.Message)
}

// NewStructuralIntegrityError creates a new structural integrity error
func NewStructuralIntegrityError(part, message string) error {
	return &StructuralIntegrityError{
		Part:    part,
		Message: message,
	}
}

// IsStructuralIntegrityError checks if an error is a structural integrity error
func IsStructuralIntegrityError(err error) bool {
	var target *StructuralIntegrityError
	return errors.As(err, &target)
}
