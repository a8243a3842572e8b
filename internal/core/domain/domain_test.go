package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2023, time.January, 10)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2023-01-10"` {
		t.Fatalf("expected \"2023-01-10\" got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("expected %v got %v", d, back)
	}

	var empty Date
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !empty.IsZero() {
		t.Fatalf("expected zero date from null")
	}
	if err := json.Unmarshal([]byte(`"10/01/2023"`), &empty); err == nil {
		t.Fatalf("expected error for non ISO date")
	}
}

func TestDateOfTruncates(t *testing.T) {
	in := time.Date(2024, time.March, 5, 17, 45, 0, 0, time.UTC)
	d := DateOf(in)
	if d.Hour() != 0 || d.Minute() != 0 || d.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", d.Time)
	}
	if d.AddDays(-5).String() != "2024-02-29" {
		t.Fatalf("expected 2024-02-29 got %s", d.AddDays(-5))
	}
}

func TestParseTypeAndNature(t *testing.T) {
	if tp, err := ParseType("interne"); err != nil || tp != TypeInterne {
		t.Fatalf("expected INTERNE got %q (%v)", tp, err)
	}
	if _, err := ParseType("INTERNAL"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if n, err := ParseNature("DEPART"); err != nil || n != NatureDepart {
		t.Fatalf("expected DEPART got %q (%v)", n, err)
	}
	if _, err := ParseNature("OUT"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestErrorKinds(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := fmt.Errorf("uploading: %w", StorageFault("write attachment", cause))
	if !errors.Is(wrapped, ErrStorageFault) {
		t.Fatalf("expected storage fault kind")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("expected cause to be reachable")
	}

	err := Conflict("Courrier", "numCourrier", "COUD-2023-001")
	if !errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound) {
		t.Fatalf("unexpected kind for %v", err)
	}
	de, ok := AsError(err)
	if !ok || de.Field != "numCourrier" || de.Value != "COUD-2023-001" {
		t.Fatalf("unexpected error detail %+v", de)
	}
	if got := NotFound("Courrier", "id", 7).Error(); got != "Courrier not found with id: 7" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := Invalid(map[string]string{"b": "required", "a": "too short"}).Error(); got != "invalid input: a: too short; b: required" {
		t.Fatalf("unexpected message %q", got)
	}
}
