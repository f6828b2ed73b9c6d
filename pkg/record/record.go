// Package record defines the waitlist signup data: the editable form state and
// the persisted record it produces.
package record

import (
	"sort"
	"time"
)

const (
	// FieldFullName is the signup's display name.
	FieldFullName = "fullName"
	// FieldEmail is the signup's contact address and the default unique field.
	FieldEmail = "email"
)

// ID identifies a persisted record within its collection.
type ID string

// Record is one persisted waitlist signup.
type Record struct {
	ID         ID                `json:"id" yaml:"id"`
	Collection string            `json:"collection" yaml:"collection"`
	Fields     map[string]string `json:"fields" yaml:"fields"`
	Created    Timestamp         `json:"created" yaml:"created"`
}

// New stamps fields into a record for collection. The field map is copied.
func New(collection string, fields map[string]string, now time.Time) *Record {
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	return &Record{
		Collection: collection,
		Fields:     cp,
		Created:    Timestamp{Time: now},
	}
}

// Get returns the named field value or "".
func (r *Record) Get(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// FullName is shorthand for Get(FieldFullName).
func (r *Record) FullName() string { return r.Get(FieldFullName) }

// Email is shorthand for Get(FieldEmail).
func (r *Record) Email() string { return r.Get(FieldEmail) }

// Sort orders records by creation time, oldest first, then by ID.
func Sort(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		left, right := records[i], records[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt, rt := left.Created.Time, right.Created.Time
		switch {
		case lt.IsZero() && rt.IsZero():
			return left.ID < right.ID
		case lt.IsZero():
			return false
		case rt.IsZero():
			return true
		case lt.Equal(rt):
			return left.ID < right.ID
		default:
			return lt.Before(rt)
		}
	})
}
