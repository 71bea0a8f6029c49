package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-14")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != time.March || d.Day() != 14 {
		t.Errorf("got %v", d)
	}
	if d.Location() != time.UTC {
		t.Errorf("parsed date not in UTC: %v", d.Location())
	}

	if _, err := ParseDate("14/03/2025"); err == nil {
		t.Error("expected error for non ISO format")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 1, 3)
	out, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"2025-01-03"` {
		t.Errorf("marshal = %s", out)
	}

	var back Date
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip mismatch: %v != %v", back, d)
	}
}
