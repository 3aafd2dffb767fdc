package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrBadDate marks an invoice date that no supported layout can parse.
var ErrBadDate = errors.New("unrecognized invoice date")

// dateLayouts are tried in order when normalizing an invoice date.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

// NormalizeDate coerces a date string into YYYY-MM-DD. Unparseable input is
// a hard validation failure, never a silent default.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty", ErrBadDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadDate, s)
}
