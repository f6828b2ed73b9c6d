// Package mcp provides the Model Context Protocol server integration for the
// waitlist.
package mcp

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/store"
	"tableflip.dev/waitlist/pkg/submission"
)

// Service coordinates store-backed operations that are shared by the MCP
// server. Every join runs through its own Controller so concurrent tool calls
// never share form state.
type Service struct {
	Store      store.Store
	Collection string
	Options    []submission.Option
}

// SignupDTO is a transport-friendly projection of a record.
type SignupDTO struct {
	ID          string `json:"id"`
	Collection  string `json:"collection"`
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	CreatedISO  string `json:"created,omitempty"`
	CreatedUnix int64  `json:"createdUnix,omitempty"`
}

// JoinResult reports the notification a join produced. Status is one of
// joined, duplicate or failed.
type JoinResult struct {
	Status   string `json:"status"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Error    string `json:"error,omitempty"`
}

// NewService builds a service for collection. Options are applied to every
// per-call controller after the collection.
func NewService(s store.Store, collection string, opts ...submission.Option) *Service {
	if collection == "" {
		collection = submission.DefaultCollection
	}
	return &Service{Store: s, Collection: collection, Options: opts}
}

// Join validates and submits one signup.
func (s *Service) Join(ctx context.Context, fullName, email string) (*JoinResult, error) {
	if s.Store == nil {
		return nil, errors.New("store is not configured")
	}
	opts := append([]submission.Option{submission.WithCollection(s.Collection)}, s.Options...)
	ctrl := submission.New(s.Store, opts...)
	ctrl.UpdateField(record.FieldFullName, fullName)
	ctrl.UpdateField(record.FieldEmail, email)
	if err := ctrl.Form().Validate(); err != nil {
		return nil, err
	}

	n, ok := ctrl.Submit(ctx)
	if !ok {
		return nil, errors.New("a submission is already in flight")
	}
	res := &JoinResult{
		Status:   outcome(n.Severity),
		Severity: n.Severity.String(),
		Message:  n.Message,
	}
	if err := ctrl.LastError(); err != nil {
		res.Error = err.Error()
	}
	return res, nil
}

// List returns every signup in the service's collection, oldest first.
func (s *Service) List(ctx context.Context) ([]SignupDTO, error) {
	if s.Store == nil {
		return nil, errors.New("store is not configured")
	}
	records, err := s.Store.List(ctx, s.Collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.Collection, err)
	}
	record.Sort(records)
	out := make([]SignupDTO, 0, len(records))
	for _, r := range records {
		out = append(out, toDTO(r))
	}
	return out, nil
}

func outcome(sev notify.Severity) string {
	switch sev {
	case notify.Success:
		return "joined"
	case notify.Warning:
		return "duplicate"
	default:
		return "failed"
	}
}

func toDTO(r *record.Record) SignupDTO {
	dto := SignupDTO{
		ID:         string(r.ID),
		Collection: r.Collection,
		FullName:   r.FullName(),
		Email:      r.Email(),
	}
	if !r.Created.IsZero() {
		dto.CreatedISO = r.Created.String()
		dto.CreatedUnix = r.Created.Unix()
	}
	return dto
}
