package checkin

import (
	"errors"
	"testing"
	"time"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, ok := ParseDate(s)
	if !ok {
		t.Fatalf("bad test date %q", s)
	}
	return d
}

func newTestStore() (*Store, *MemoryPrefs) {
	prefs := NewMemoryPrefs()
	return NewStore(prefs, nil), prefs
}

func mustDates(t *testing.T, store *Store, username string) map[string]struct{} {
	t.Helper()
	dates, err := store.GetCheckInDates(username)
	if err != nil {
		t.Fatalf("GetCheckInDates(%s): %v", username, err)
	}
	return dates
}

func mustStreak(t *testing.T, store *Store, username string) int {
	t.Helper()
	streak, err := store.GetStreak(username)
	if err != nil {
		t.Fatalf("GetStreak(%s): %v", username, err)
	}
	return streak
}

func TestFirstEverCheckIn(t *testing.T) {
	store, _ := newTestStore()

	res, err := store.CheckInOn("alice", mustDate(t, "2025-01-01"))
	if err != nil {
		t.Fatalf("CheckInOn: %v", err)
	}
	if res.AlreadyChecked || res.Streak != 1 {
		t.Errorf("first check-in = %+v, want {false 1}", res)
	}
	dates := mustDates(t, store, "alice")
	if len(dates) != 1 {
		t.Fatalf("dates = %v, want one element", dates)
	}
	if _, ok := dates["2025-01-01"]; !ok {
		t.Errorf("dates missing 2025-01-01: %v", dates)
	}
}

func TestSameDayIdempotence(t *testing.T) {
	store, _ := newTestStore()
	day := mustDate(t, "2025-01-02")

	if _, err := store.CheckInOn("alice", day); err != nil {
		t.Fatal(err)
	}
	res, err := store.CheckInOn("alice", day)
	if err != nil {
		t.Fatal(err)
	}
	if !res.AlreadyChecked || res.Streak != 1 {
		t.Errorf("repeat check-in = %+v, want {true 1}", res)
	}
	if got := len(mustDates(t, store, "alice")); got != 1 {
		t.Errorf("date set grew on repeat check-in: %d entries", got)
	}
}

func TestConsecutiveDayIncrement(t *testing.T) {
	store, _ := newTestStore()
	day := mustDate(t, "2025-01-01")

	for i := 0; i < 5; i++ {
		res, err := store.CheckInOn("alice", day.AddDays(i))
		if err != nil {
			t.Fatal(err)
		}
		if res.AlreadyChecked || res.Streak != i+1 {
			t.Errorf("day %d: got %+v, want {false %d}", i+1, res, i+1)
		}
	}
	if got := mustStreak(t, store, "alice"); got != 5 {
		t.Errorf("GetStreak = %d, want 5", got)
	}
	if got := len(mustDates(t, store, "alice")); got != 5 {
		t.Errorf("history has %d dates, want 5", got)
	}
}

func TestGapResetsStreak(t *testing.T) {
	store, _ := newTestStore()

	if _, err := store.CheckInOn("alice", mustDate(t, "2025-01-01")); err != nil {
		t.Fatal(err)
	}
	if _, err := store.CheckInOn("alice", mustDate(t, "2025-01-02")); err != nil {
		t.Fatal(err)
	}
	res, err := store.CheckInOn("alice", mustDate(t, "2025-01-05"))
	if err != nil {
		t.Fatal(err)
	}
	if res.AlreadyChecked || res.Streak != 1 {
		t.Errorf("gap check-in = %+v, want {false 1}", res)
	}
	// History keeps the earlier dates even after the streak resets.
	if got := len(mustDates(t, store, "alice")); got != 3 {
		t.Errorf("history has %d dates, want 3", got)
	}
}

// Scenario from the check-in feature: 01-01 → 01-02 → repeat → skip to 01-05.
func TestCheckInScenario(t *testing.T) {
	store, _ := newTestStore()
	steps := []struct {
		day         string
		wantAlready bool
		wantStreak  int
	}{
		{"2025-01-01", false, 1},
		{"2025-01-02", false, 2},
		{"2025-01-02", true, 2},
		{"2025-01-05", false, 1},
	}
	for _, step := range steps {
		res, err := store.CheckInOn("bob", mustDate(t, step.day))
		if err != nil {
			t.Fatal(err)
		}
		if res.AlreadyChecked != step.wantAlready || res.Streak != step.wantStreak {
			t.Errorf("check-in on %s = %+v, want {%v %d}",
				step.day, res, step.wantAlready, step.wantStreak)
		}
	}
}

func TestEmptyRecordDefaults(t *testing.T) {
	store, _ := newTestStore()

	if got := mustStreak(t, store, "nobody"); got != 0 {
		t.Errorf("GetStreak = %d, want 0", got)
	}
	if got := mustDates(t, store, "nobody"); len(got) != 0 {
		t.Errorf("GetCheckInDates = %v, want empty", got)
	}
	if checked, err := store.IsTodayCheckedIn("nobody"); err != nil || checked {
		t.Errorf("IsTodayCheckedIn = %v, %v for empty record", checked, err)
	}
	if checked, err := store.IsCheckedInDate("nobody", ""); err != nil || checked {
		t.Errorf("IsCheckedInDate(\"\") = %v, %v", checked, err)
	}
}

func TestMalformedLastDateResets(t *testing.T) {
	store, prefs := newTestStore()
	keys := KeysFor("alice")
	_ = prefs.Edit(func(e Editor) {
		e.PutString(keys.LastDate, "not-a-date").
			PutInt(keys.Streak, 7).
			PutStringSet(keys.Dates, map[string]struct{}{"not-a-date": {}})
	})

	res, err := store.CheckInOn("alice", mustDate(t, "2025-06-01"))
	if err != nil {
		t.Fatal(err)
	}
	if res.AlreadyChecked || res.Streak != 1 {
		t.Errorf("check-in over corrupted last date = %+v, want {false 1}", res)
	}
}

func TestUserNamespaceIsolation(t *testing.T) {
	store, _ := newTestStore()
	day := mustDate(t, "2025-01-01")

	if _, err := store.CheckInOn("alice", day); err != nil {
		t.Fatal(err)
	}
	if got := mustStreak(t, store, "bob"); got != 0 {
		t.Errorf("bob inherited alice's streak: %d", got)
	}
	if checked, err := store.IsCheckedInDate("bob", day.String()); err != nil || checked {
		t.Error("bob sees alice's date set")
	}
}

func TestLegacyMigration(t *testing.T) {
	store, prefs := newTestStore()
	// Pre-multi-user layout: bare keys, no date set.
	_ = prefs.Edit(func(e Editor) {
		e.PutString("last_checkin_date", "2025-01-01").
			PutInt("checkin_streak", 3)
	})

	dates := mustDates(t, store, "alice")
	if len(dates) != 1 {
		t.Fatalf("migrated dates = %v, want one element", dates)
	}
	if _, ok := dates["2025-01-01"]; !ok {
		t.Errorf("migrated dates missing legacy last date: %v", dates)
	}
	if got := mustStreak(t, store, "alice"); got != 3 {
		t.Errorf("migrated streak = %d, want 3", got)
	}

	// Consecutive check-in after migration extends the legacy streak.
	res, err := store.CheckInOn("alice", mustDate(t, "2025-01-02"))
	if err != nil {
		t.Fatal(err)
	}
	if res.Streak != 4 {
		t.Errorf("post-migration streak = %d, want 4", res.Streak)
	}

	// The legacy record is claimed once; a second user starts clean.
	if got := mustStreak(t, store, "carol"); got != 0 {
		t.Errorf("carol claimed the legacy record too: streak=%d", got)
	}
	hasStreak, _ := prefs.Contains("checkin_streak")
	hasLast, _ := prefs.Contains("last_checkin_date")
	if hasStreak || hasLast {
		t.Error("legacy keys survived migration")
	}
}

func TestLegacyMigrationPartialRecord(t *testing.T) {
	store, prefs := newTestStore()
	// Only the streak survived; no last date to synthesize a set from.
	_ = prefs.Edit(func(e Editor) {
		e.PutInt("checkin_streak", 2)
	})

	if got := mustStreak(t, store, "alice"); got != 2 {
		t.Errorf("migrated streak = %d, want 2", got)
	}
	if got := mustDates(t, store, "alice"); len(got) != 0 {
		t.Errorf("dates = %v, want empty", got)
	}
}

func TestDateSetSynthesizedFromLastDate(t *testing.T) {
	store, prefs := newTestStore()
	keys := KeysFor("alice")
	// Namespaced record that predates the date-set key.
	_ = prefs.Edit(func(e Editor) {
		e.PutString(keys.LastDate, "2025-02-10").PutInt(keys.Streak, 1)
	})

	dates := mustDates(t, store, "alice")
	if _, ok := dates["2025-02-10"]; !ok || len(dates) != 1 {
		t.Errorf("synthesized set = %v, want {2025-02-10}", dates)
	}
	// The synthesized set is persisted for later loads.
	if set, ok, _ := prefs.GetStringSet(keys.Dates); !ok || len(set) != 1 {
		t.Errorf("set not persisted: %v, %v", set, ok)
	}
}

func TestStreakInvariants(t *testing.T) {
	store, _ := newTestStore()
	day := mustDate(t, "2025-03-01")
	for i := 0; i < 4; i++ {
		if _, err := store.CheckInOn("alice", day.AddDays(i)); err != nil {
			t.Fatal(err)
		}
	}

	dates := mustDates(t, store, "alice")
	var maxDate Date
	for raw := range dates {
		d, ok := ParseDate(raw)
		if !ok {
			t.Fatalf("stored malformed date %q", raw)
		}
		if maxDate.Before(d) {
			maxDate = d
		}
	}
	if maxDate != (Date{2025, time.March, 4}) {
		t.Errorf("max(dates) = %v, want 2025-03-04", maxDate)
	}
	// streak equals the maximal consecutive run ending at max(dates)
	run := 0
	for d := maxDate; ; d = d.AddDays(-1) {
		if _, ok := dates[d.String()]; !ok {
			break
		}
		run++
	}
	if got := mustStreak(t, store, "alice"); got != run {
		t.Errorf("GetStreak = %d, run = %d", got, run)
	}
}

// flakyPrefs simulates a store whose date-set reads fail on demand, the way
// a durable backend does during an outage.
type flakyPrefs struct {
	*MemoryPrefs
	failSetReads bool
}

var errStoreDown = errors.New("store unreachable")

func (p *flakyPrefs) GetStringSet(key string) (map[string]struct{}, bool, error) {
	if p.failSetReads {
		return nil, false, errStoreDown
	}
	return p.MemoryPrefs.GetStringSet(key)
}

func TestCheckInAbortsOnFailedHistoryRead(t *testing.T) {
	prefs := &flakyPrefs{MemoryPrefs: NewMemoryPrefs()}
	store := NewStore(prefs, nil)
	day := mustDate(t, "2025-04-01")

	for i := 0; i < 3; i++ {
		if _, err := store.CheckInOn("alice", day.AddDays(i)); err != nil {
			t.Fatal(err)
		}
	}

	// A failed read must abort the check-in, not pass for an empty history.
	prefs.failSetReads = true
	if _, err := store.CheckInOn("alice", day.AddDays(3)); !errors.Is(err, errStoreDown) {
		t.Fatalf("CheckInOn during outage: err = %v, want %v", err, errStoreDown)
	}
	if _, err := store.GetCheckInDates("alice"); !errors.Is(err, errStoreDown) {
		t.Errorf("GetCheckInDates during outage: err = %v, want %v", err, errStoreDown)
	}

	// Once reads recover, the full history is intact and day 4 lands on top.
	prefs.failSetReads = false
	res, err := store.CheckInOn("alice", day.AddDays(3))
	if err != nil {
		t.Fatal(err)
	}
	if res.AlreadyChecked || res.Streak != 4 {
		t.Errorf("post-outage check-in = %+v, want {false 4}", res)
	}
	if got := len(mustDates(t, store, "alice")); got != 4 {
		t.Errorf("history after transient read failure = %d dates, want 4", got)
	}
}
