package record

import (
	"fmt"
	"strings"
)

// ValidationError lists the fields that keep a form from being submitted.
type ValidationError struct {
	Missing []string
	Invalid []string
}

func (e *ValidationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("required: %s", strings.Join(e.Missing, ", ")))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid: %s", strings.Join(e.Invalid, ", ")))
	}
	return "record: " + strings.Join(parts, "; ")
}
