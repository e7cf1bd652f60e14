package hydration

import (
	"errors"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

var ErrInvalidDay = errors.New("invalid day, expected YYYY-MM-DD")

// Day is a calendar day in the user's reference timezone, formatted YYYY-MM-DD.
// Days compare lexically.
type Day string

func ParseDay(s string) (Day, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return "", ErrInvalidDay
	}
	return Day(t.Format(DayLayout)), nil
}

// DayOf returns the calendar day t falls on in loc.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc).Format(DayLayout))
}

func (d Day) String() string { return string(d) }

// Time returns midnight UTC of the day. Zero time for a malformed day.
func (d Day) Time() time.Time {
	t, err := time.Parse(DayLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Day) AddDays(n int) Day {
	return Day(d.Time().AddDate(0, 0, n).Format(DayLayout))
}

func (d Day) Before(o Day) bool { return d < o }
func (d Day) After(o Day) bool  { return d > o }

// Month identifies a calendar month, formatted YYYY-MM.
type Month struct {
	Year  int
	Month time.Month
}

func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Month{}, errors.New("invalid month, expected YYYY-MM")
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

func MonthOf(d Day) Month {
	t := d.Time()
	return Month{Year: t.Year(), Month: t.Month()}
}

func (m Month) String() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

func (m Month) FirstDay() Day {
	return Day(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format(DayLayout))
}

func (m Month) LastDay() Day {
	return Day(time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Format(DayLayout))
}
