package resource

import (
	"encoding/json"
	"testing"
	"time"
)

type dated struct {
	StartDate Date `json:"startDate" validate:"required"`
}

func TestDate_EarliestDateIsNotAbsent(t *testing.T) {
	t.Parallel()

	var in dated
	if err := json.Unmarshal([]byte(`{"startDate":"0001-01-01"}`), &in); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if in.StartDate.IsZero() {
		t.Fatalf("0001-01-01 must be a present date")
	}
	if err := NewValidator().Struct(in); err != nil {
		t.Fatalf("expected 0001-01-01 to satisfy required, got %v", err)
	}

	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(b) != `{"startDate":"0001-01-01"}` {
		t.Fatalf("unexpected encoding: %s", b)
	}
}

func TestDate_AbsentFailsRequired(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{}`, `{"startDate":null}`, `{"startDate":""}`} {
		var in dated
		if err := json.Unmarshal([]byte(body), &in); err != nil {
			t.Fatalf("Unmarshal(%s) returned error: %v", body, err)
		}
		if !in.StartDate.IsZero() {
			t.Errorf("%s: expected an absent date", body)
		}
		if err := NewValidator().Struct(in); err == nil {
			t.Errorf("%s: expected required to fail", body)
		}
	}
}

func TestNewDate_DropsTimeOfDay(t *testing.T) {
	t.Parallel()

	d := NewDate(time.Date(2024, 2, 29, 23, 59, 0, 0, time.FixedZone("JST", 9*60*60)))
	if d.String() != "2024-02-29" {
		t.Fatalf("unexpected date %s", d)
	}
	if !d.Time().Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", d.Time())
	}
	if NewDate(time.Time{}).IsZero() {
		t.Fatalf("NewDate must always produce a present date")
	}
}

func TestParseDate_RejectsOtherLayouts(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"01/01/2024", "2024-1-1", "2024-01-01T00:00:00Z"} {
		if _, err := ParseDate(raw); err == nil {
			t.Errorf("ParseDate(%q) expected error", raw)
		}
	}
}
