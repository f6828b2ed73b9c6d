package printers

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"tableflip.dev/waitlist/pkg/notify"
	"tableflip.dev/waitlist/pkg/record"
)

func init() {
	color.NoColor = true
}

func sampleRecords() []*record.Record {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	r := record.New("waitlist", map[string]string{
		record.FieldFullName: "Ada Lovelace",
		record.FieldEmail:    "ada@example.com",
	}, now)
	r.ID = "id-1"
	return []*record.Record{r}
}

func TestRecordsTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, ShowID: true}
	if err := pp.Records(FormatTable, "waitlist", sampleRecords()); err != nil {
		t.Fatalf("records: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"waitlist - 1 signup", "Ada Lovelace", "ada@example.com", "id-1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRecordsEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	if err := pp.Records(FormatTable, "waitlist", nil); err != nil {
		t.Fatalf("records: %v", err)
	}
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}

func TestRecordsJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	if err := pp.Records(FormatJSON, "waitlist", sampleRecords()); err != nil {
		t.Fatalf("json: %v", err)
	}
	var decoded []record.Record
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(decoded) != 1 || decoded[0].Email() != "ada@example.com" {
		t.Fatalf("unexpected json records %+v", decoded)
	}

	buf.Reset()
	if err := pp.Records(FormatYAML, "waitlist", sampleRecords()); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var generic []map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &generic); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if generic[0]["created"] != "2025-03-03T12:00:00Z" {
		t.Fatalf("created = %v", generic[0]["created"])
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatTable, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}

func TestNotificationLine(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Notification(notify.New("You are now on the waitlist.", notify.Success, 0, time.Now()))
	if got := buf.String(); got != "✔ You are now on the waitlist.\n" {
		t.Fatalf("line = %q", got)
	}
}
