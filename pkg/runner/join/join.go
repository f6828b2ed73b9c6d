// Package join submits one signup from the command line.
package join

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/printers"
	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/submission"
)

// ErrNotJoined is returned when the store rejected the signup.
var ErrNotJoined = errors.New("join: signup failed")

type Join struct {
	Controller  *submission.Controller
	Fields      map[string]string
	Interactive bool
	// Prompter is used for missing fields when Interactive; nil picks survey.
	Prompter Prompter
	Printer  *printers.PrettyPrint
}

func (j *Join) Do(ctx context.Context) error {
	if j.Controller == nil {
		return errors.New("join: no controller configured")
	}
	for name, value := range j.Fields {
		j.Controller.UpdateField(name, value)
	}

	if j.Interactive {
		if err := j.promptMissing(ctx); err != nil {
			return err
		}
	}

	if err := j.Controller.Form().Validate(); err != nil {
		return err
	}

	n, ok := j.Controller.Submit(ctx)
	if !ok {
		return errors.New("join: a submission is already in flight")
	}

	pp := j.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.Notification(n)

	if n.Severity == notify.Error {
		if err := j.Controller.LastError(); err != nil {
			return fmt.Errorf("%w: %v", ErrNotJoined, err)
		}
		return ErrNotJoined
	}
	return nil
}

func (j *Join) promptMissing(ctx context.Context) error {
	p := j.Prompter
	if p == nil {
		var err error
		if p, err = NewSurveyPrompter(); err != nil {
			return err
		}
	}
	form := j.Controller.Form()
	for _, field := range form.Fields() {
		if strings.TrimSpace(form.Get(field.Name)) != "" {
			continue
		}
		field := field
		value, err := p.Input(ctx, InputConfig{
			Message:   field.Placeholder + ":",
			Validator: fieldValidator(field),
		})
		if err != nil {
			return err
		}
		j.Controller.UpdateField(field.Name, value)
	}
	return nil
}

func fieldValidator(field record.Field) func(string) error {
	return func(v string) error {
		probe := record.NewFormState(field)
		probe.Set(field.Name, v)
		return probe.Validate()
	}
}
