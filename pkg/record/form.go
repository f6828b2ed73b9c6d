package record

import (
	"net/mail"
	"strings"
)

// Field declares one text input of the signup form.
type Field struct {
	Name        string
	Placeholder string
	Email       bool
}

// DefaultFields are the inputs of the waitlist page.
func DefaultFields() []Field {
	return []Field{
		{Name: FieldFullName, Placeholder: "Full Name"},
		{Name: FieldEmail, Placeholder: "Your Email", Email: true},
	}
}

// FormState holds the current value of every declared field. All declared
// fields are required.
type FormState struct {
	fields []Field
	values map[string]string
}

// NewFormState returns an empty form for fields, or DefaultFields when none
// are given.
func NewFormState(fields ...Field) FormState {
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	f := FormState{
		fields: append([]Field(nil), fields...),
		values: make(map[string]string, len(fields)),
	}
	f.Reset()
	return f
}

// Fields returns the declared inputs in display order.
func (f FormState) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

// Has reports whether name is a declared field.
func (f FormState) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Set replaces the value of a declared field. Unknown names are ignored.
func (f *FormState) Set(name, value string) {
	if !f.Has(name) {
		return
	}
	f.values[name] = value
}

// Get returns the value of a field.
func (f FormState) Get(name string) string {
	return f.values[name]
}

// Values snapshots every declared field.
func (f FormState) Values() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// Reset empties every declared field.
func (f *FormState) Reset() {
	if f.values == nil {
		f.values = make(map[string]string, len(f.fields))
	}
	for _, field := range f.fields {
		f.values[field.Name] = ""
	}
}

// Empty reports whether no field holds a value.
func (f FormState) Empty() bool {
	for _, v := range f.values {
		if v != "" {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (f FormState) Clone() FormState {
	return FormState{
		fields: append([]Field(nil), f.fields...),
		values: f.Values(),
	}
}

// Validate reports empty required fields and malformed email fields.
func (f FormState) Validate() error {
	verr := &ValidationError{}
	for _, field := range f.fields {
		v := strings.TrimSpace(f.values[field.Name])
		if v == "" {
			verr.Missing = append(verr.Missing, field.Name)
			continue
		}
		if field.Email {
			if _, err := mail.ParseAddress(v); err != nil {
				verr.Invalid = append(verr.Invalid, field.Name)
			}
		}
	}
	if len(verr.Missing) == 0 && len(verr.Invalid) == 0 {
		return nil
	}
	return verr
}

// Sanitized returns the values trimmed and stripped of markup.
func (f FormState) Sanitized() map[string]string {
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = Sanitize(v)
	}
	return out
}
