package reconcile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// ErrDateFormat rejects a manufacture date in any shape other than
// YYYY-MM-DD or M/D/YYYY.
var ErrDateFormat = errors.New("dateOfManufacturing must be YYYY-MM-DD")

var (
	isoDate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{1,4})$`)
)

// NormalizeDate returns the canonical YYYY-MM-DD form of s. Typed text and
// date-picker values take the same path: a slash date that does not split
// into month, day and year is rejected like any other malformed value.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)

	out := s
	if !isoDate.MatchString(s) {
		m := slashDate.FindStringSubmatch(s)
		if m == nil {
			return "", ErrDateFormat
		}
		out = fmt.Sprintf("%s-%s-%s", leftPad(m[3], 4), leftPad(m[1], 2), leftPad(m[2], 2))
	}

	// 2/30/2024 pads fine but is not a calendar date
	if _, err := time.Parse(isoLayout, out); err != nil {
		return "", ErrDateFormat
	}
	return out, nil
}

func leftPad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
