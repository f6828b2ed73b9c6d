package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/waitlist/pkg/record"
	"tableflip.dev/waitlist/pkg/store"
	"tableflip.dev/waitlist/pkg/submission"
)

func TestServiceJoinStoresSignup(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	svc := NewService(mem, "")

	res, err := svc.Join(ctx, "Ada Lovelace", "ada@example.com")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	want := &JoinResult{Status: "joined", Severity: "success", Message: submission.MessageSuccess}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Fatalf("unexpected result (-want +got):\n%s", diff)
	}

	signups, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(signups) != 1 {
		t.Fatalf("expected 1 signup, got %d", len(signups))
	}
	if signups[0].Email != "ada@example.com" || signups[0].Collection != submission.DefaultCollection {
		t.Fatalf("unexpected signup %+v", signups[0])
	}
	if signups[0].CreatedISO == "" {
		t.Fatalf("expected created timestamp")
	}
}

func TestServiceJoinRejectsInvalidEmail(t *testing.T) {
	svc := NewService(store.NewMemory(), "beta")
	_, err := svc.Join(context.Background(), "Ada", "not-an-email")
	var verr *record.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestServiceJoinDuplicate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(store.NewMemory(), "beta", submission.WithDuplicateCheck(true))
	if _, err := svc.Join(ctx, "Ada", "ada@example.com"); err != nil {
		t.Fatalf("first join: %v", err)
	}
	res, err := svc.Join(ctx, "Ada again", "ada@example.com")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if res.Status != "duplicate" || res.Message != submission.MessageDuplicate {
		t.Fatalf("unexpected result %+v", res)
	}
	signups, _ := svc.List(ctx)
	if len(signups) != 1 {
		t.Fatalf("expected duplicate to be skipped, have %d signups", len(signups))
	}
}

func TestServerListsTools(t *testing.T) {
	srv := server.NewMCPServer("waitlist MCP", "test", server.WithToolCapabilities(false))
	svc := NewService(store.NewMemory(), "")
	registerTools(srv, svc)
	registerResources(srv, svc)

	resp := srv.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	for _, name := range []string{"join_waitlist", "list_waitlist"} {
		if !strings.Contains(string(data), name) {
			t.Fatalf("tools/list missing %s: %s", name, data)
		}
	}
}
