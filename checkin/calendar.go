package checkin

// Button labels shown on the check-in screen.
const (
	ButtonCheckIn = "打卡"
	ButtonDone    = "今日已打卡"
)

// monthWindow is how far the calendar scrolls either side of the current month.
const monthWindow = 12

// Cell is the render state of one day slot in the month grid. Out-of-month
// overflow days are muted, dotless, and never tappable.
type Cell struct {
	Date     Date `json:"date"`
	Day      int  `json:"day"`
	InMonth  bool `json:"in_month"`
	Dot      bool `json:"dot"`
	Selected bool `json:"selected"`
	Tappable bool `json:"tappable"`
}

// Summary counts the current calendar month up to and including today.
type Summary struct {
	Checked int `json:"checked"`
	Missed  int `json:"missed"`
}

// Calendar reconciles the month grid against the store: it mirrors the full
// checked-date set, tracks the user's selected day apart from today, and
// re-syncs after every mutation.
type Calendar struct {
	store    *Store
	username string
	today    Date
	selected Date
	visible  YearMonth
	start    YearMonth
	end      YearMonth
	checked  map[Date]struct{}
}

// NewCalendar builds the calendar session for username: window of today's
// month ±12, selection on today, date mirror loaded from the store.
func NewCalendar(store *Store, username string, today Date) (*Calendar, error) {
	current := YearMonthOf(today)
	c := &Calendar{
		store:    store,
		username: username,
		today:    today,
		selected: today,
		visible:  current,
		start:    current.AddMonths(-monthWindow),
		end:      current.AddMonths(monthWindow),
	}
	if err := c.reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// reload rebuilds the in-memory date mirror from the store. Malformed stored
// strings are skipped so a corrupt entry can never break a render pass; a
// failed store read surfaces as an error.
func (c *Calendar) reload() error {
	set, err := c.store.GetCheckInDates(c.username)
	if err != nil {
		return err
	}
	c.checked = map[Date]struct{}{}
	for raw := range set {
		if d, ok := ParseDate(raw); ok {
			c.checked[d] = struct{}{}
		}
	}
	return nil
}

// Selected returns the currently selected day.
func (c *Calendar) Selected() Date {
	return c.selected
}

// VisibleMonth returns the month the grid is scrolled to.
func (c *Calendar) VisibleMonth() YearMonth {
	return c.visible
}

// IsChecked reports whether d is in the mirrored date set.
func (c *Calendar) IsChecked(d Date) bool {
	_, ok := c.checked[d]
	return ok
}

// DayCell computes the render state for one day slot of the given month.
// Pure: no side effects, no store access.
func (c *Calendar) DayCell(d Date, month YearMonth) Cell {
	cell := Cell{Date: d, Day: d.Day}
	if YearMonthOf(d) != month {
		return cell
	}
	cell.InMonth = true
	cell.Tappable = true
	cell.Dot = c.IsChecked(d)
	cell.Selected = d == c.selected
	return cell
}

// MonthCells lays the month out as Sunday-first weeks, including the leading
// and trailing overflow days needed for grid alignment.
func (c *Calendar) MonthCells(month YearMonth) []Cell {
	first := month.FirstDay()
	lead := int(first.utc().Weekday()) // days shown before the 1st, Sunday start
	total := lead + month.Days()
	if rem := total % 7; rem != 0 {
		total += 7 - rem
	}
	cells := make([]Cell, 0, total)
	for i := 0; i < total; i++ {
		cells = append(cells, c.DayCell(first.AddDays(i-lead), month))
	}
	return cells
}

// Select moves the selection to an in-month day of the visible month and
// returns exactly the cells needing repaint: the old and new selection.
// Out-of-month taps are ignored.
func (c *Calendar) Select(d Date) ([]Date, bool) {
	if YearMonthOf(d) != c.visible {
		return nil, false
	}
	old := c.selected
	c.selected = d
	if old == d {
		return []Date{d}, true
	}
	return []Date{old, d}, true
}

// Scroll moves the visible month, clamped to the fixed ±12-month window.
// Returns false when ym lies outside the window.
func (c *Calendar) Scroll(ym YearMonth) bool {
	if ym.Compare(c.start) < 0 || ym.Compare(c.end) > 0 {
		return false
	}
	c.visible = ym
	return true
}

// ButtonState returns the check-in button's enabled flag and label, read
// from the session mirror.
func (c *Calendar) ButtonState() (bool, string) {
	if c.IsChecked(c.today) {
		return false, ButtonDone
	}
	return true, ButtonCheckIn
}

// CheckIn records today and re-syncs the session: full mirror reload,
// selection moved to today, grid scrolled back to the current month. The
// re-sync also runs on the AlreadyChecked outcome, which is unreachable
// through the gated button but handled rather than trusted.
func (c *Calendar) CheckIn() (Result, error) {
	res, err := c.store.CheckInOn(c.username, c.today)
	if err != nil {
		return Result{}, err
	}
	if err := c.reload(); err != nil {
		return Result{}, err
	}
	c.selected = c.today
	c.visible = YearMonthOf(c.today)
	return res, nil
}

// MonthSummary counts checked and missed days of the current calendar month,
// days after today excluded. A forward count, not a trailing window.
func (c *Calendar) MonthSummary() Summary {
	checked := 0
	for d := range c.checked {
		if d.Year == c.today.Year && d.Month == c.today.Month && d.Day <= c.today.Day {
			checked++
		}
	}
	missed := c.today.Day - checked
	if missed < 0 {
		missed = 0
	}
	return Summary{Checked: checked, Missed: missed}
}

// MonthTitle renders the visible month heading, e.g. "2025年03月".
func (c *Calendar) MonthTitle() string {
	return c.visible.FirstDay().utc().Format("2006年01月")
}
