// Package summary groups readings per location into weekly or monthly pH
// buckets.
package summary

import (
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"soilwatch/entities"
	"soilwatch/pkg/rounding"
)

// DefaultLocation groups readings whose location is blank.
const DefaultLocation = "General"

const dateLayout = "2006-01-02"

type Bucket struct {
	Label string  `json:"label"`
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Summarize returns, per location, the buckets sorted by ascending label.
// Readings with an unparsable date are left out.
func Summarize(readings []entities.Reading, period Period) map[string][]Bucket {
	groups := map[string]map[string][]float64{}
	for _, r := range readings {
		d, ok := ParseDate(r.Date)
		if !ok {
			continue
		}
		loc := strings.TrimSpace(r.Location)
		if loc == "" {
			loc = DefaultLocation
		}
		label := MonthLabel(d)
		if period == Weekly {
			label = WeekLabel(d)
		}
		if groups[loc] == nil {
			groups[loc] = map[string][]float64{}
		}
		groups[loc][label] = append(groups[loc][label], r.Ph)
	}

	out := make(map[string][]Bucket, len(groups))
	for loc, buckets := range groups {
		rows := make([]Bucket, 0, len(buckets))
		for label, phs := range buckets {
			rows = append(rows, Bucket{
				Label: label,
				Avg:   rounding.HalfUp(stat.Mean(phs, nil), 2),
				Count: len(phs),
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
		out[loc] = rows
	}
	return out
}

// Locations lists the summary keys in sorted order.
func Locations(s map[string][]Bucket) []string {
	out := make([]string, 0, len(s))
	for loc := range s {
		out = append(out, loc)
	}
	sort.Strings(out)
	return out
}

// WeekLabel renders the Monday-start week containing d as
// "<monday> → <sunday>".
func WeekLabel(d time.Time) string {
	offset := 1 - int(d.Weekday())
	if d.Weekday() == time.Sunday {
		offset = -6
	}
	monday := d.AddDate(0, 0, offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(dateLayout) + " → " + sunday.Format(dateLayout)
}

func MonthLabel(d time.Time) string { return d.Format("2006-01") }

// ParseDate reads the calendar date of a reading. A trailing time component
// is ignored; the date is taken as written, with no timezone shift.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
