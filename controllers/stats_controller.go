package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justyn/meow/models"
	"github.com/justyn/meow/utils"
)

// StatsController provides aggregate figures for the app's content catalogs.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

const (
	statsCacheKey = "cache:stats"
	statsCacheTTL = time.Minute
)

// GetStats returns catalog counts and today's page views. The figures are
// served from the redis cache for up to a minute between recomputes.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var cached gin.H
	if utils.CacheGetJSON(statsCacheKey, &cached) {
		utils.Success(ctx, cached)
		return
	}

	var userCount int64
	var picCount int64
	var trackCount int64
	var profileCount int64
	var todayViews int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}
	if err := s.db.Model(&models.CatPic{}).Count(&picCount).Error; err != nil {
		picCount = 0
	}
	if err := s.db.Model(&models.FmTrack{}).Count(&trackCount).Error; err != nil {
		trackCount = 0
	}
	if err := s.db.Model(&models.CatProfile{}).Count(&profileCount).Error; err != nil {
		profileCount = 0
	}

	// Use string date equality to avoid timezone/type mismatches with DATE column
	today := time.Now().In(time.Local).Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&todayViews).Error; err != nil {
		todayViews = 0
	}

	stats := gin.H{
		"user_count":        userCount,
		"pic_count":         picCount,
		"track_count":       trackCount,
		"cat_profile_count": profileCount,
		"today_page_views":  todayViews,
	}
	utils.CacheSetJSON(statsCacheKey, stats, statsCacheTTL)
	utils.Success(ctx, stats)
}
