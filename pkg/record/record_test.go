package record

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSortOrdersByCreated(t *testing.T) {
	base := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	records := []*Record{
		{ID: "c", Created: Timestamp{Time: base.Add(2 * time.Minute)}},
		{ID: "z"},
		{ID: "a", Created: Timestamp{Time: base}},
		{ID: "b", Created: Timestamp{Time: base}},
	}
	Sort(records)
	var got []ID
	for _, r := range records {
		got = append(got, r.ID)
	}
	want := []ID{"a", "b", "c", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestRecordJSONTimestamp(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	r := New("waitlist", map[string]string{FieldEmail: "ada@example.com"}, now)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Created.Equal(now) {
		t.Fatalf("created = %v, want %v", back.Created, now)
	}
	if back.Email() != "ada@example.com" {
		t.Fatalf("email = %q", back.Email())
	}
}
