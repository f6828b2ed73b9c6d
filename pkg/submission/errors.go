package submission

import "fmt"

// DuplicateRecordError reports that the unique field is already on the list.
type DuplicateRecordError struct {
	Collection string
	Field      string
	Value      string
}

func (e *DuplicateRecordError) Error() string {
	return fmt.Sprintf("submission: %s %s=%q already exists", e.Collection, e.Field, e.Value)
}
