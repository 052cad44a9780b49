package project

import (
	"fmt"
	"time"

	"github.com/sosodev/duration"
)

var ErrInvalidPeriod = fmt.Errorf("invalid period")

// Period is a half-open time window [Start, End).
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (p Period) IsValid() bool {
	return p.Start.Before(p.End)
}

func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// String renders the window length as an ISO 8601 duration, e.g. "P7D".
func (p Period) String() string {
	return duration.FromTimeDuration(p.End.Sub(p.Start)).String()
}

// NewPeriodFromISO8601 returns the window of the given ISO 8601 duration ending at until.
func NewPeriodFromISO8601(iso8601 string, until time.Time) (Period, error) {
	d, err := duration.Parse(iso8601)
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q: %w", ErrInvalidPeriod, iso8601, err)
	}

	span := d.ToTimeDuration()
	if span <= 0 {
		return Period{}, fmt.Errorf("%w: %q must be a positive duration", ErrInvalidPeriod, iso8601)
	}

	// records created exactly at until still belong to the window
	end := until.Add(time.Nanosecond)
	return Period{Start: end.Add(-span), End: end}, nil
}
