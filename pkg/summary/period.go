package summary

import (
	"fmt"
	"strings"
)

type Period string

const (
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

var ErrUnknownPeriod = fmt.Errorf("unknown period")

// ParsePeriod accepts "weekly" or "monthly", case-insensitively.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
}

// Title is the capitalized period name used for sheet names.
func (p Period) Title() string {
	if p == Monthly {
		return "Monthly"
	}
	return "Weekly"
}

// BucketName names one bucket of the period in table headers.
func (p Period) BucketName() string {
	if p == Monthly {
		return "Month"
	}
	return "Week"
}
