package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/justyn/meow/checkin"
	"github.com/justyn/meow/middleware"
)

func newCheckInRouter(t *testing.T, username, today string) (*gin.Engine, *checkin.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := checkin.NewStore(checkin.NewMemoryPrefs(), nil)
	ctrl := NewCheckInController(store)
	ctrl.now = func() checkin.Date {
		d, ok := checkin.ParseDate(today)
		if !ok {
			t.Fatalf("bad test date %q", today)
		}
		return d
	}

	r := gin.New()
	grp := r.Group("/api/v1/checkin")
	grp.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUsernameKey, username)
	})
	grp.POST("/daily", ctrl.Daily)
	grp.GET("/status", ctrl.Status)
	grp.GET("/dates", ctrl.Dates)
	grp.GET("/calendar", ctrl.Calendar)
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body %q: %v", w.Body.String(), err)
	}
	return w.Code, body.Data
}

func TestDailyFirstCheckIn(t *testing.T) {
	r, _ := newCheckInRouter(t, "alice", "2025-03-05")

	status, data := doJSON(t, r, http.MethodPost, "/api/v1/checkin/daily")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if got := data["already_checked"].(bool); got {
		t.Error("already_checked = true, want false")
	}
	if got := data["streak"].(float64); got != 1 {
		t.Errorf("streak = %v, want 1", got)
	}
	if got := data["date"].(string); got != "2025-03-05" {
		t.Errorf("date = %q, want 2025-03-05", got)
	}
}

func TestDailyRepeatIsNoticeNotError(t *testing.T) {
	r, _ := newCheckInRouter(t, "alice", "2025-03-05")

	doJSON(t, r, http.MethodPost, "/api/v1/checkin/daily")
	status, data := doJSON(t, r, http.MethodPost, "/api/v1/checkin/daily")

	if status != http.StatusOK {
		t.Fatalf("repeat status = %d, want %d", status, http.StatusOK)
	}
	if got := data["already_checked"].(bool); !got {
		t.Error("already_checked = false, want true")
	}
	if got := data["streak"].(float64); got != 1 {
		t.Errorf("streak = %v, want 1", got)
	}
}

func TestStatusReflectsStore(t *testing.T) {
	r, store := newCheckInRouter(t, "alice", "2025-03-05")

	_, data := doJSON(t, r, http.MethodGet, "/api/v1/checkin/status")
	if got := data["today_checked"].(bool); got {
		t.Error("today_checked = true before any check-in")
	}
	if got := data["streak"].(float64); got != 0 {
		t.Errorf("streak = %v, want 0", got)
	}

	for _, day := range []string{"2025-03-04", "2025-03-05"} {
		d, _ := checkin.ParseDate(day)
		if _, err := store.CheckInOn("alice", d); err != nil {
			t.Fatalf("CheckInOn(%s): %v", day, err)
		}
	}

	_, data = doJSON(t, r, http.MethodGet, "/api/v1/checkin/status")
	if got := data["today_checked"].(bool); !got {
		t.Error("today_checked = false, want true")
	}
	if got := data["streak"].(float64); got != 2 {
		t.Errorf("streak = %v, want 2", got)
	}
	if got := data["today"].(string); got != "2025-03-05" {
		t.Errorf("today = %q, want 2025-03-05", got)
	}
}

func TestDatesSortedAscending(t *testing.T) {
	r, store := newCheckInRouter(t, "alice", "2025-03-05")

	for _, day := range []string{"2025-03-03", "2025-03-04", "2025-03-05"} {
		d, _ := checkin.ParseDate(day)
		if _, err := store.CheckInOn("alice", d); err != nil {
			t.Fatalf("CheckInOn(%s): %v", day, err)
		}
	}

	_, data := doJSON(t, r, http.MethodGet, "/api/v1/checkin/dates")
	raw := data["dates"].([]interface{})
	want := []string{"2025-03-03", "2025-03-04", "2025-03-05"}
	if len(raw) != len(want) {
		t.Fatalf("len(dates) = %d, want %d", len(raw), len(want))
	}
	for i, v := range raw {
		if v.(string) != want[i] {
			t.Errorf("dates[%d] = %v, want %s", i, v, want[i])
		}
	}
}

func TestCalendarCurrentMonth(t *testing.T) {
	r, store := newCheckInRouter(t, "alice", "2025-03-05")

	d, _ := checkin.ParseDate("2025-03-05")
	if _, err := store.CheckInOn("alice", d); err != nil {
		t.Fatalf("CheckInOn: %v", err)
	}

	status, data := doJSON(t, r, http.MethodGet, "/api/v1/checkin/calendar")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if got := data["month"].(string); got != "2025-03" {
		t.Errorf("month = %q, want 2025-03", got)
	}
	if got := data["title"].(string); got != "2025年03月" {
		t.Errorf("title = %q, want 2025年03月", got)
	}
	button := data["button"].(map[string]interface{})
	if button["enabled"].(bool) {
		t.Error("button enabled after today's check-in")
	}
	if got := button["label"].(string); got != checkin.ButtonDone {
		t.Errorf("label = %q, want %q", got, checkin.ButtonDone)
	}
	summary := data["summary"].(map[string]interface{})
	if got := summary["checked"].(float64); got != 1 {
		t.Errorf("summary.checked = %v, want 1", got)
	}
	if got := summary["missed"].(float64); got != 4 {
		t.Errorf("summary.missed = %v, want 4", got)
	}

	// 2025-03-01 is a Saturday: 6 leading overflow cells, 31 days, padded to
	// whole weeks.
	cells := data["cells"].([]interface{})
	if len(cells) != 42 {
		t.Errorf("len(cells) = %d, want 42", len(cells))
	}
	first := cells[0].(map[string]interface{})
	if first["in_month"].(bool) {
		t.Error("first cell should be overflow")
	}
}

func TestCalendarScrollAndClamp(t *testing.T) {
	r, _ := newCheckInRouter(t, "alice", "2025-03-05")

	_, data := doJSON(t, r, http.MethodGet, "/api/v1/checkin/calendar?month=2025-01")
	if got := data["month"].(string); got != "2025-01" {
		t.Errorf("month = %q, want 2025-01", got)
	}
	if data["clamped"].(bool) {
		t.Error("clamped = true for in-window month")
	}

	// 2027-01 is outside the twelve month window, view stays on the
	// current month.
	_, data = doJSON(t, r, http.MethodGet, "/api/v1/checkin/calendar?month=2027-01")
	if got := data["month"].(string); got != "2025-03" {
		t.Errorf("month = %q, want 2025-03", got)
	}
	if !data["clamped"].(bool) {
		t.Error("clamped = false for out-of-window month")
	}
}

func TestCalendarRejectsMalformedMonth(t *testing.T) {
	r, _ := newCheckInRouter(t, "alice", "2025-03-05")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkin/calendar?month=March-2025", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestCheckInUsersAreIsolated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := checkin.NewStore(checkin.NewMemoryPrefs(), nil)
	today, _ := checkin.ParseDate("2025-03-05")

	if _, err := store.CheckInOn("alice", today); err != nil {
		t.Fatalf("CheckInOn: %v", err)
	}

	streak, err := store.GetStreak("bob")
	if err != nil {
		t.Fatalf("GetStreak: %v", err)
	}
	if streak != 0 {
		t.Errorf("bob streak = %d, want 0", streak)
	}
}
