package codec

import (
	"fmt"
	"time"
)

// Date is a calendar date without a time zone, matching the semantics of the
// PostgreSQL date type.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the Date carrying t's date in t's location.
func DateOf(t time.Time) Date {
	year, month, day := t.Date()
	return Date{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in "2006-01-02" form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// In returns the instant at the start of the date in the given location.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// DaysSince returns the day count from other to d.
func (d Date) DaysSince(other Date) int {
	return int(d.In(time.UTC).Sub(other.In(time.UTC)) / (24 * time.Hour))
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// String formats the date in "2006-01-02" form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// DateTime is a wall-clock date and time without a time zone, matching the
// semantics of the PostgreSQL timestamp type.
type DateTime struct {
	Date
	Hour   int
	Minute int
	Second int
	Nanos  int
}

// DateTimeOf returns the DateTime carrying t's wall-clock reading in t's
// location.
func DateTimeOf(t time.Time) DateTime {
	hour, minute, second := t.Clock()
	return DateTime{
		Date:   DateOf(t),
		Hour:   hour,
		Minute: minute,
		Second: second,
		Nanos:  t.Nanosecond(),
	}
}

// In returns the instant with this wall-clock reading in the given location.
func (dt DateTime) In(loc *time.Location) time.Time {
	return time.Date(dt.Year, dt.Month, dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Nanos, loc)
}

// String formats the value in "2006-01-02 15:04:05.999999" form. The
// fractional part is omitted when zero.
func (dt DateTime) String() string {
	return dt.In(time.UTC).Format("2006-01-02 15:04:05.999999")
}
