package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justyn/meow/metrics"
	"github.com/justyn/meow/models"
	"github.com/justyn/meow/utils"
)

var audioExts = []string{".mp3", ".m4a", ".aac", ".ogg", ".wav"}

// FmController serves the Meow FM track list.
type FmController struct {
	db *gorm.DB
}

// NewFmController creates an FmController.
func NewFmController(db *gorm.DB) *FmController {
	return &FmController{db: db}
}

// ListTracks returns paginated tracks, optionally filtered by title.
func (f *FmController) ListTracks(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	query := f.db.Model(&models.FmTrack{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to count tracks")
		return
	}

	var tracks []models.FmTrack
	if err := query.Order("id ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&tracks).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list tracks")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      tracks,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// GetTrack returns a single track.
func (f *FmController) GetTrack(ctx *gin.Context) {
	var track models.FmTrack
	if err := f.db.First(&track, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "track not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to get track")
		return
	}
	utils.Success(ctx, track)
}

type fmTrackRequest struct {
	Title    string `json:"title" binding:"required,min=1,max=128"`
	Subtitle string `json:"subtitle"`
	AudioURL string `json:"audio_url"`
}

// CreateTrack adds a track to the FM list.
func (f *FmController) CreateTrack(ctx *gin.Context) {
	var req fmTrackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	track := models.FmTrack{
		Title:    strings.TrimSpace(req.Title),
		Subtitle: strings.TrimSpace(req.Subtitle),
		AudioURL: strings.TrimSpace(req.AudioURL),
	}
	if err := f.db.Create(&track).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create track")
		return
	}
	utils.Success(ctx, track)
}

// UpdateTrack replaces the editable fields of a track.
func (f *FmController) UpdateTrack(ctx *gin.Context) {
	var req fmTrackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	var track models.FmTrack
	if err := f.db.First(&track, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "track not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to get track")
		return
	}

	track.Title = strings.TrimSpace(req.Title)
	track.Subtitle = strings.TrimSpace(req.Subtitle)
	if v := strings.TrimSpace(req.AudioURL); v != "" {
		track.AudioURL = v
	}

	if err := f.db.Save(&track).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update track")
		return
	}
	utils.Success(ctx, track)
}

// DeleteTrack removes a track from the list.
func (f *FmController) DeleteTrack(ctx *gin.Context) {
	res := f.db.Delete(&models.FmTrack{}, ctx.Param("id"))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to delete track")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "track not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "track deleted"})
}

// UploadAudio stores an audio file for the track and points audio_url at it.
func (f *FmController) UploadAudio(ctx *gin.Context) {
	var track models.FmTrack
	if err := f.db.First(&track, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "track not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to get track")
		return
	}

	url, ok := saveUpload(ctx, "file", audioExts)
	if !ok {
		return
	}

	track.AudioURL = url
	if err := f.db.Save(&track).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update track")
		return
	}
	metrics.Uploads.WithLabelValues("audio").Inc()
	utils.Success(ctx, track)
}
