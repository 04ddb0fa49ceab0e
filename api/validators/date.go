package validators

import (
	"fmt"
	"time"

	pkgerrors "github.com/cardmachineworks/taxreporter/pkg/errors"
)

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(field, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", field))
	}
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.
			Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("%s must be a date in YYYY-MM-DD form", field)).
			WithDetails(map[string]string{field: raw})
	}
	return parsed, nil
}

// ParseDateRange parses the start/end pair. An inverted range is not an
// error; it simply matches no orders downstream.
func ParseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := ParseDate("start_date", startRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate("end_date", endRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
