package checkin

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-01-01", Date{2025, time.January, 1}, true},
		{"2024-02-29", Date{2024, time.February, 29}, true},
		{"2025-1-1", Date{}, false},
		{"2025-13-01", Date{}, false},
		{"2025-02-30", Date{}, false},
		{"garbage", Date{}, false},
		{"", Date{}, false},
		{"2025-01-01T00", Date{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseDate(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestFormatDateZeroPads(t *testing.T) {
	if got := FormatDate(2025, 3, 7); got != "2025-03-07" {
		t.Errorf("FormatDate = %q, want 2025-03-07", got)
	}
	if got := (Date{2025, time.March, 7}).String(); got != "2025-03-07" {
		t.Errorf("Date.String = %q, want 2025-03-07", got)
	}
}

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2025-01-01", "2025-01-02", 1},
		{"2025-01-02", "2025-01-01", -1},
		{"2025-01-01", "2025-01-01", 0},
		{"2025-02-28", "2025-03-01", 1},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2024-12-31", "2025-01-01", 1},
		// Across a DST transition in most zones; must still be exact.
		{"2025-03-08", "2025-03-10", 2},
	}
	for _, tc := range cases {
		a, _ := ParseDate(tc.a)
		b, _ := ParseDate(tc.b)
		if got := DaysBetween(a, b); got != tc.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestIsYesterday(t *testing.T) {
	cases := []struct {
		last, today string
		want        bool
	}{
		{"2025-01-01", "2025-01-02", true},
		{"2025-01-01", "2025-01-03", false},
		{"2025-01-02", "2025-01-01", false},
		{"2025-01-01", "2025-01-01", false},
		{"corrupted!!", "2025-01-02", false},
		{"2025-01-01", "corrupted!!", false},
		{"", "2025-01-02", false},
	}
	for _, tc := range cases {
		if got := IsYesterday(tc.last, tc.today); got != tc.want {
			t.Errorf("IsYesterday(%q, %q) = %v, want %v", tc.last, tc.today, got, tc.want)
		}
	}
}

func TestYearMonthWindow(t *testing.T) {
	ym := YearMonth{2025, time.March}
	if got := ym.AddMonths(-12); got != (YearMonth{2024, time.March}) {
		t.Errorf("AddMonths(-12) = %v", got)
	}
	if got := ym.AddMonths(11); got != (YearMonth{2026, time.February}) {
		t.Errorf("AddMonths(11) = %v", got)
	}
	if ym.Compare(YearMonth{2025, time.April}) != -1 {
		t.Error("2025-03 should order before 2025-04")
	}
	if got := ym.String(); got != "2025-03" {
		t.Errorf("String = %q", got)
	}
	if got, ok := ParseYearMonth("2025-03"); !ok || got != ym {
		t.Errorf("ParseYearMonth = %v, %v", got, ok)
	}
	if _, ok := ParseYearMonth("2025/03"); ok {
		t.Error("ParseYearMonth accepted malformed input")
	}
}

func TestYearMonthDays(t *testing.T) {
	cases := []struct {
		ym   YearMonth
		want int
	}{
		{YearMonth{2025, time.February}, 28},
		{YearMonth{2024, time.February}, 29},
		{YearMonth{2025, time.April}, 30},
		{YearMonth{2025, time.December}, 31},
	}
	for _, tc := range cases {
		if got := tc.ym.Days(); got != tc.want {
			t.Errorf("%v.Days() = %d, want %d", tc.ym, got, tc.want)
		}
	}
}
