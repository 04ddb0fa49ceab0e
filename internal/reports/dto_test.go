package reports

import (
	"testing"
	"time"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "summary", want: FormatSummary},
		{in: "detailed", want: FormatDetailed},
		{in: " Detailed ", want: FormatDetailed},
		{in: "", want: FormatSummary},
		{in: "verbose", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseFormat(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRangeWindowEnd(t *testing.T) {
	r := NewRange(
		time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 4, 0, 0, 0, time.UTC),
	)

	if !r.WindowStart().Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected window start %s", r.WindowStart())
	}
	if !r.WindowEnd().Equal(time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("unexpected window end %s", r.WindowEnd())
	}
	if r.String() != "2024-01-01/2024-03-31" {
		t.Fatalf("unexpected range string %q", r.String())
	}
}

func TestCurrentQuarter(t *testing.T) {
	tests := []struct {
		now   time.Time
		start string
		end   string
	}{
		{time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), "2024-01-01", "2024-03-31"},
		{time.Date(2024, 3, 31, 23, 59, 0, 0, time.UTC), "2024-01-01", "2024-03-31"},
		{time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC), "2024-04-01", "2024-06-30"},
		{time.Date(2024, 9, 30, 23, 59, 0, 0, time.UTC), "2024-07-01", "2024-09-30"},
		{time.Date(2024, 12, 31, 23, 59, 0, 0, time.UTC), "2024-10-01", "2024-12-31"},
	}
	for _, tt := range tests {
		q := CurrentQuarter(tt.now)
		if got := q.Start.Format("2006-01-02"); got != tt.start {
			t.Fatalf("CurrentQuarter(%s) start = %s, want %s", tt.now, got, tt.start)
		}
		if got := q.End.Format("2006-01-02"); got != tt.end {
			t.Fatalf("CurrentQuarter(%s) end = %s, want %s", tt.now, got, tt.end)
		}
	}
}

func TestPreviousQuarter(t *testing.T) {
	tests := []struct {
		now   time.Time
		start string
		end   string
	}{
		{time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), "2023-10-01", "2023-12-31"},
		{time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), "2024-01-01", "2024-03-31"},
		{time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), "2024-04-01", "2024-06-30"},
		{time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC), "2024-07-01", "2024-09-30"},
	}
	for _, tt := range tests {
		q := PreviousQuarter(tt.now)
		if got := q.Start.Format("2006-01-02"); got != tt.start {
			t.Fatalf("PreviousQuarter(%s) start = %s, want %s", tt.now, got, tt.start)
		}
		if got := q.End.Format("2006-01-02"); got != tt.end {
			t.Fatalf("PreviousQuarter(%s) end = %s, want %s", tt.now, got, tt.end)
		}
	}
}

func TestSubjectLine(t *testing.T) {
	r := NewRange(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	)
	want := "Texas Sales Tax Report - January 1, 2024 to March 31, 2024"
	if got := Subject(r); got != want {
		t.Fatalf("Subject = %q, want %q", got, want)
	}
}
