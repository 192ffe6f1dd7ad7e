package report

import (
	"errors"
	"fmt"
	"time"
)

// ErrDateParse marks a malformed timestamp inside a raw record. The
// affected order is skipped; the failure is never fatal to a run.
var ErrDateParse = errors.New("unparsable date")

const dateLayout = "02/01/2006"

// Pancake emits bare ISO-8601 local timestamps, occasionally with
// fractional seconds or a zone suffix.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999",
	time.RFC3339,
}

func parseISO(value string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrDateParse, value)
}

// formatDate renders an ISO timestamp as d/m/Y.
func formatDate(value string) (string, error) {
	ts, err := parseISO(value)
	if err != nil {
		return "", err
	}
	return ts.Format(dateLayout), nil
}
