package controllers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justyn/meow/checkin"
	"github.com/justyn/meow/metrics"
	"github.com/justyn/meow/middleware"
	"github.com/justyn/meow/utils"
)

// CheckInController exposes the daily check-in tracker over HTTP. All handlers
// resolve the user from JWT claims, the store keys every record by username.
type CheckInController struct {
	store *checkin.Store
	// now is injectable for tests, defaults to checkin.Today.
	now func() checkin.Date
}

// NewCheckInController creates a CheckInController.
func NewCheckInController(store *checkin.Store) *CheckInController {
	return &CheckInController{store: store, now: checkin.Today}
}

func currentUsername(ctx *gin.Context) (string, bool) {
	username := strings.TrimSpace(ctx.GetString(middleware.ContextUsernameKey))
	return username, username != ""
}

// Daily records today's check-in. A repeat tap is a notice, not an error:
// the response carries already_checked and the unchanged streak with HTTP 200.
func (c *CheckInController) Daily(ctx *gin.Context) {
	username, ok := currentUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	today := c.now()
	res, err := c.store.CheckInOn(username, today)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to record check-in")
		return
	}
	if !res.AlreadyChecked {
		metrics.CheckIns.Inc()
	}

	utils.Success(ctx, gin.H{
		"already_checked": res.AlreadyChecked,
		"streak":          res.Streak,
		"date":            today.String(),
	})
}

// Status returns the streak and whether today is already checked.
func (c *CheckInController) Status(ctx *gin.Context) {
	username, ok := currentUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	today := c.now()
	streak, err := c.store.GetStreak(username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to read check-in record")
		return
	}
	checked, err := c.store.IsCheckedInDate(username, today.String())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to read check-in record")
		return
	}

	utils.Success(ctx, gin.H{
		"streak":        streak,
		"today_checked": checked,
		"today":         today.String(),
	})
}

// Dates returns every recorded check-in date, sorted ascending.
func (c *CheckInController) Dates(ctx *gin.Context) {
	username, ok := currentUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	set, err := c.store.GetCheckInDates(username)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to read check-in record")
		return
	}
	dates := make([]string, 0, len(set))
	for d := range set {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	utils.Success(ctx, gin.H{"dates": dates})
}

// Calendar renders one month of the check-in calendar: the Sunday-first cell
// grid, button state and the month summary. month=YYYY-MM scrolls the view,
// clamped to twelve months either side of the current month.
func (c *CheckInController) Calendar(ctx *gin.Context) {
	username, ok := currentUsername(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, utils.CodeUnauthorized, "unauthorized")
		return
	}

	today := c.now()
	cal, err := checkin.NewCalendar(c.store, username, today)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to read check-in record")
		return
	}

	clamped := false
	if raw := strings.TrimSpace(ctx.Query("month")); raw != "" {
		ym, valid := checkin.ParseYearMonth(raw)
		if !valid {
			utils.Error(ctx, http.StatusBadRequest, 40031, "month must be YYYY-MM")
			return
		}
		if !cal.Scroll(ym) {
			// Out-of-window months stay on the current month.
			clamped = true
		}
	}

	enabled, label := cal.ButtonState()
	summary := cal.MonthSummary()

	utils.Success(ctx, gin.H{
		"month":    cal.VisibleMonth().String(),
		"title":    cal.MonthTitle(),
		"clamped":  clamped,
		"cells":    cal.MonthCells(cal.VisibleMonth()),
		"selected": cal.Selected().String(),
		"button": gin.H{
			"enabled": enabled,
			"label":   label,
		},
		"summary": summary,
	})
}
