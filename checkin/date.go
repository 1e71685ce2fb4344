package checkin

import (
	"fmt"
	"time"
)

// DatePattern is the canonical storage form for check-in dates.
const DatePattern = "2006-01-02"

// Date is a plain calendar date with no time component. Day arithmetic is done
// on midnight-anchored UTC instants, so daylight-saving transitions in the
// device zone can never skew a day delta.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date on the local wall clock.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a strict zero-padded YYYY-MM-DD string. Malformed input
// reports ok=false, never an error or a panic.
func ParseDate(s string) (Date, bool) {
	if len(s) != len(DatePattern) {
		return Date{}, false
	}
	t, err := time.Parse(DatePattern, s)
	if err != nil {
		return Date{}, false
	}
	return DateOf(t), true
}

// FormatDate renders the canonical zero-padded form.
func FormatDate(year int, month int, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// String implements the canonical YYYY-MM-DD form.
func (d Date) String() string {
	return FormatDate(d.Year, int(d.Month), d.Day)
}

func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.utc().AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.utc().Before(other.utc())
}

// DaysBetween returns the signed whole-day difference b-a.
func DaysBetween(a, b Date) int {
	return int(b.utc().Sub(a.utc()) / (24 * time.Hour))
}

// IsYesterday reports whether last is exactly one calendar day before today.
// Either string failing to parse yields false.
func IsYesterday(last, today string) bool {
	lastDate, ok := ParseDate(last)
	if !ok {
		return false
	}
	todayDate, ok := ParseDate(today)
	if !ok {
		return false
	}
	return DaysBetween(lastDate, todayDate) == 1
}

// YearMonth identifies a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month containing d.
func YearMonthOf(d Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// String renders YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, bool) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, false
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, true
}

// AddMonths returns ym shifted by n months.
func (ym YearMonth) AddMonths(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Compare orders two months: -1 when ym is earlier than other, 0 when equal, 1 when later.
func (ym YearMonth) Compare(other YearMonth) int {
	a := ym.Year*12 + int(ym.Month)
	b := other.Year*12 + int(other.Month)
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// FirstDay returns the first date of the month.
func (ym YearMonth) FirstDay() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	last := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1)
	return last.Day()
}
