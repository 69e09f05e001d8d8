// Package attendance holds the rules that derive a record's status and hours.
// Everything here is a pure function of its inputs and the organization
// Policy; persistence lives in the repository and services packages.
package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jgirmay/attendance/pkg/config"
	apperrors "github.com/jgirmay/attendance/pkg/errors"
	"github.com/jgirmay/attendance/pkg/models"
)

// DayLayout is the storage format of day keys.
const DayLayout = "2006-01-02"

// Policy carries the organization's attendance rules.
type Policy struct {
	Location         *time.Location
	LateCutoffHour   int
	HalfDayThreshold time.Duration
}

// DefaultPolicy uses the local timezone, a 10:00 late cutoff and a four hour
// half-day threshold.
func DefaultPolicy() Policy {
	return Policy{
		Location:         time.Local,
		LateCutoffHour:   10,
		HalfDayThreshold: 4 * time.Hour,
	}
}

// NewPolicy builds a Policy from configuration.
func NewPolicy(cfg config.AttendanceConfig) (Policy, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Policy{}, err
	}
	return Policy{
		Location:         loc,
		LateCutoffHour:   cfg.LateCutoffHour,
		HalfDayThreshold: time.Duration(cfg.HalfDayHours * float64(time.Hour)),
	}, nil
}

func (p Policy) location() *time.Location {
	if p.Location == nil {
		return time.Local
	}
	return p.Location
}

// DayOf truncates t to the start of its calendar day in the policy timezone
// and returns that instant together with its day key.
func (p Policy) DayOf(t time.Time) (time.Time, string) {
	local := t.In(p.location())
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, p.location())
	return start, start.Format(DayLayout)
}

// DayKey returns only the day key of t.
func (p Policy) DayKey(t time.Time) string {
	_, key := p.DayOf(t)
	return key
}

// CheckInStatus applies the late-arrival rule: late when the local hour of t
// is at or past the cutoff.
func (p Policy) CheckInStatus(t time.Time) models.Status {
	if t.In(p.location()).Hour() >= p.LateCutoffHour {
		return models.StatusLate
	}
	return models.StatusPresent
}

// CheckOut computes the closing values of a record checked in at checkIn with
// the given status. An elapsed time under the half-day threshold overrides
// the status to half-day; otherwise the check-in status is kept.
func (p Policy) CheckOut(checkIn time.Time, status models.Status, now time.Time) (float64, models.Status, error) {
	if !now.After(checkIn) {
		return 0, status, apperrors.InvalidCheckOut(
			fmt.Sprintf("check-in %s, check-out %s", checkIn.Format(time.RFC3339), now.Format(time.RFC3339)),
		)
	}

	elapsed := now.Sub(checkIn)
	if elapsed < p.HalfDayThreshold {
		status = models.StatusHalfDay
	}
	return RoundHours(elapsed.Hours()), status, nil
}

// MonthRange returns the first and last day keys of the month containing ref.
func (p Policy) MonthRange(ref time.Time) (string, string) {
	local := ref.In(p.location())
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, p.location())
	last := first.AddDate(0, 1, -1)
	return first.Format(DayLayout), last.Format(DayLayout)
}

// TrailingDays returns the n day starts ending at asOf, oldest first.
func (p Policy) TrailingDays(asOf time.Time, n int) []time.Time {
	end, _ := p.DayOf(asOf)
	days := make([]time.Time, 0, n)
	for i := n - 1; i >= 0; i-- {
		days = append(days, end.AddDate(0, 0, -i))
	}
	return days
}

// ParseDay accepts either a YYYY-MM-DD date or an RFC 3339 timestamp and
// returns the day key it falls on in the policy timezone.
func (p Policy) ParseDay(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if t, err := time.ParseInLocation(DayLayout, value, p.location()); err == nil {
		return t.Format(DayLayout), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", apperrors.Validation("invalid date", fmt.Sprintf("%q is neither YYYY-MM-DD nor RFC 3339", value))
	}
	return p.DayKey(t), nil
}

// RoundHours rounds to two decimal places.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// FormatHours renders hours with exactly two decimals.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", RoundHours(h))
}
