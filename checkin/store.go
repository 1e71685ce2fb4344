package checkin

import (
	"strings"

	"go.uber.org/zap"
)

// Preference store names, matching the client's two preference files.
const (
	PrefsName    = "meow_prefs"
	CheckInPrefs = "meow_checkin_prefs"
	keyLastDate  = "last_checkin_date"
	keyStreak    = "checkin_streak"
	keyDates     = "checkin_dates"
)

// Keys is the composite (base, username) key set for one user's namespace.
// Building keys anywhere else is not allowed; this is the only place where
// the legacy string-suffix form is produced.
type Keys struct {
	LastDate string
	Streak   string
	Dates    string
}

// KeysFor resolves the namespaced keys for username. An empty username
// collapses to the bare legacy keys, which only the migration path reads.
func KeysFor(username string) Keys {
	return Keys{
		LastDate: namespacedKey(keyLastDate, username),
		Streak:   namespacedKey(keyStreak, username),
		Dates:    namespacedKey(keyDates, username),
	}
}

func namespacedKey(base, username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return base
	}
	return base + "_" + username
}

// Result is the outcome of a check-in attempt.
type Result struct {
	AlreadyChecked bool `json:"already_checked"`
	Streak         int  `json:"streak"`
}

// record is one user's loaded check-in state.
type record struct {
	lastDate string
	streak   int
	dates    map[string]struct{}
}

// Store owns check-in history and the derived streak for every user,
// persisted in a Prefs namespace. All operations are idempotent for the
// already-checked-in-today case and never panic on malformed stored dates.
type Store struct {
	prefs Prefs
	log   *zap.SugaredLogger
}

// NewStore creates a Store over prefs. log may be nil.
func NewStore(prefs Prefs, log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{prefs: prefs, log: log}
}

// CheckInToday records a check-in for the local calendar date.
func (s *Store) CheckInToday(username string) (Result, error) {
	return s.CheckInOn(username, Today())
}

// CheckInOn records a check-in for the given date. Repeat calls on the same
// date return AlreadyChecked with the streak unchanged and no mutation. A
// failed read aborts the check-in: writing on top of state we could not read
// would replace the user's history with a fragment.
func (s *Store) CheckInOn(username string, today Date) (Result, error) {
	keys := KeysFor(username)
	rec, err := s.load(username, keys)
	if err != nil {
		return Result{}, err
	}
	todayStr := today.String()

	if _, ok := rec.dates[todayStr]; ok || rec.lastDate == todayStr {
		return Result{AlreadyChecked: true, Streak: rec.streak}, nil
	}

	streak := 1
	if rec.lastDate != "" && IsYesterday(rec.lastDate, todayStr) {
		streak = rec.streak + 1
	}

	rec.dates[todayStr] = struct{}{}
	err = s.prefs.Edit(func(e Editor) {
		e.PutString(keys.LastDate, todayStr).
			PutInt(keys.Streak, streak).
			PutStringSet(keys.Dates, rec.dates)
	})
	if err != nil {
		return Result{}, err
	}
	return Result{AlreadyChecked: false, Streak: streak}, nil
}

// GetStreak returns the persisted consecutive-day count, 0 when absent.
func (s *Store) GetStreak(username string) (int, error) {
	keys := KeysFor(username)
	rec, err := s.load(username, keys)
	if err != nil {
		return 0, err
	}
	return rec.streak, nil
}

// GetCheckInDates returns the full check-in history as canonical date strings.
func (s *Store) GetCheckInDates(username string) (map[string]struct{}, error) {
	keys := KeysFor(username)
	rec, err := s.load(username, keys)
	if err != nil {
		return nil, err
	}
	return rec.dates, nil
}

// IsTodayCheckedIn reports whether the local calendar date has been recorded.
func (s *Store) IsTodayCheckedIn(username string) (bool, error) {
	return s.IsCheckedInDate(username, Today().String())
}

// IsCheckedInDate reports set membership for an arbitrary date string.
func (s *Store) IsCheckedInDate(username, date string) (bool, error) {
	if strings.TrimSpace(date) == "" {
		return false, nil
	}
	keys := KeysFor(username)
	rec, err := s.load(username, keys)
	if err != nil {
		return false, err
	}
	_, ok := rec.dates[date]
	return ok, nil
}

// load reads the user's record, running the one-time legacy migration first
// and synthesizing a date set from the last date when the set key predates
// the multi-date schema. Absent values degrade to zero; a read failure is
// an error, never treated as absence.
func (s *Store) load(username string, keys Keys) (record, error) {
	if err := s.migrateLegacy(username, keys); err != nil {
		return record{}, err
	}

	rec := record{dates: map[string]struct{}{}}
	v, ok, err := s.prefs.GetString(keys.LastDate)
	if err != nil {
		return record{}, err
	}
	if ok {
		rec.lastDate = v
	}
	n, ok, err := s.prefs.GetInt(keys.Streak)
	if err != nil {
		return record{}, err
	}
	if ok {
		rec.streak = n
	}
	set, ok, err := s.prefs.GetStringSet(keys.Dates)
	if err != nil {
		return record{}, err
	}
	if ok {
		rec.dates = set
		return rec, nil
	}
	if rec.lastDate != "" {
		rec.dates[rec.lastDate] = struct{}{}
		if err := s.prefs.Edit(func(e Editor) {
			e.PutStringSet(keys.Dates, rec.dates)
		}); err != nil {
			return record{}, err
		}
	}
	return rec, nil
}

// migrateLegacy upgrades the pre-multi-user single-record schema into the
// user's namespace: legacy streak and last date are copied, a one-element
// date set is synthesized, and the legacy keys are deleted so no later user
// can claim the same history. Absent legacy values are skipped; a failed
// read or commit aborts the caller rather than risking a partial claim.
func (s *Store) migrateLegacy(username string, keys Keys) error {
	if strings.TrimSpace(username) == "" {
		return nil
	}
	for _, key := range []string{keys.Streak, keys.LastDate, keys.Dates} {
		ok, err := s.prefs.Contains(key)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	legacyStreak, hasStreak, err := s.prefs.GetInt(keyStreak)
	if err != nil {
		return err
	}
	legacyLastDate, hasLastDate, err := s.prefs.GetString(keyLastDate)
	if err != nil {
		return err
	}
	if !hasStreak && !hasLastDate {
		return nil
	}

	err = s.prefs.Edit(func(e Editor) {
		if hasStreak {
			e.PutInt(keys.Streak, legacyStreak)
		}
		if hasLastDate {
			e.PutString(keys.LastDate, legacyLastDate)
			e.PutStringSet(keys.Dates, map[string]struct{}{legacyLastDate: {}})
		}
		e.Remove(keyStreak)
		e.Remove(keyLastDate)
		e.Remove(keyDates)
	})
	if err != nil {
		s.log.Warnf("legacy check-in migration failed for %s: %v", username, err)
		return err
	}
	s.log.Infof("migrated legacy check-in record to user %s (streak=%d last=%s)",
		username, legacyStreak, legacyLastDate)
	return nil
}
