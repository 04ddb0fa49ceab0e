package validators

import (
	"testing"
	"time"

	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
)

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("start_date", "2024-03-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	if !parsed.Equal(want) {
		t.Fatalf("expected %s got %s", want, parsed)
	}
}

func TestParseDateRejectsEmpty(t *testing.T) {
	_, err := ParseDate("start_date", "")
	if err == nil {
		t.Fatal("expected error for empty date")
	}
	if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"03/31/2024", "2024-13-01", "2024-02-30", "yesterday"} {
		_, err := ParseDate("end_date", raw)
		if err == nil {
			t.Fatalf("expected error for %q", raw)
		}
		if !pkgerrors.Is(err, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation error for %q, got %v", raw, err)
		}
	}
}

func TestParseDateRangeAllowsInvertedRange(t *testing.T) {
	start, end, err := ParseDateRange("2024-06-30", "2024-04-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.After(end) {
		t.Fatalf("expected inverted range to survive parsing, got %s..%s", start, end)
	}
}
