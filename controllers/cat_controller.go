package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justyn/meow/metrics"
	"github.com/justyn/meow/models"
	"github.com/justyn/meow/utils"
)

var imageExts = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

// CatController serves the cat profile list and the photo gallery wall.
type CatController struct {
	db *gorm.DB
}

// NewCatController creates a CatController.
func NewCatController(db *gorm.DB) *CatController {
	return &CatController{db: db}
}

// ListProfiles returns paginated cat profiles, optionally filtered by a
// title search term.
func (c *CatController) ListProfiles(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))

	query := c.db.Model(&models.CatProfile{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to count cat profiles")
		return
	}

	var profiles []models.CatProfile
	if err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&profiles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to list cat profiles")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      profiles,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// GetProfile returns a single cat profile.
func (c *CatController) GetProfile(ctx *gin.Context) {
	id := ctx.Param("id")
	var profile models.CatProfile
	if err := c.db.First(&profile, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "cat profile not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to get cat profile")
		return
	}
	utils.Success(ctx, profile)
}

type catProfileRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=128"`
	Age         string `json:"age"`
	Personality string `json:"personality"`
	Description string `json:"description"`
	AvatarURL   string `json:"avatar_url"`
}

// CreateProfile adds a cat to the profile list.
func (c *CatController) CreateProfile(ctx *gin.Context) {
	var req catProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	profile := models.CatProfile{
		Title:       strings.TrimSpace(req.Title),
		Age:         strings.TrimSpace(req.Age),
		Personality: strings.TrimSpace(req.Personality),
		Description: req.Description,
		AvatarURL:   strings.TrimSpace(req.AvatarURL),
	}
	if err := c.db.Create(&profile).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to create cat profile")
		return
	}
	utils.Success(ctx, profile)
}

// UpdateProfile replaces the editable fields of a cat profile.
func (c *CatController) UpdateProfile(ctx *gin.Context) {
	var req catProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "invalid request payload")
		return
	}

	var profile models.CatProfile
	if err := c.db.First(&profile, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "cat profile not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to get cat profile")
		return
	}

	profile.Title = strings.TrimSpace(req.Title)
	profile.Age = strings.TrimSpace(req.Age)
	profile.Personality = strings.TrimSpace(req.Personality)
	profile.Description = req.Description
	if v := strings.TrimSpace(req.AvatarURL); v != "" {
		profile.AvatarURL = v
	}

	if err := c.db.Save(&profile).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to update cat profile")
		return
	}
	utils.Success(ctx, profile)
}

// DeleteProfile removes a cat profile.
func (c *CatController) DeleteProfile(ctx *gin.Context) {
	res := c.db.Delete(&models.CatProfile{}, ctx.Param("id"))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50015, "failed to delete cat profile")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "cat profile not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "cat profile deleted"})
}

// UploadAvatar stores a new avatar image for the cat profile.
func (c *CatController) UploadAvatar(ctx *gin.Context) {
	var profile models.CatProfile
	if err := c.db.First(&profile, ctx.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "cat profile not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to get cat profile")
		return
	}

	url, ok := saveUpload(ctx, "file", imageExts)
	if !ok {
		return
	}

	profile.AvatarURL = url
	if err := c.db.Save(&profile).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to update cat profile")
		return
	}
	metrics.Uploads.WithLabelValues("avatar").Inc()
	utils.Success(ctx, profile)
}

// ListPics returns the gallery, newest first.
func (c *CatController) ListPics(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := c.db.Model(&models.CatPic{}).Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50016, "failed to count pics")
		return
	}

	var pics []models.CatPic
	if err := c.db.Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&pics).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50017, "failed to list pics")
		return
	}

	utils.Success(ctx, gin.H{
		"items":      pics,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// UploadPic adds a photo to the gallery wall. Title falls back to an
// upload timestamp when omitted.
func (c *CatController) UploadPic(ctx *gin.Context) {
	url, ok := saveUpload(ctx, "file", imageExts)
	if !ok {
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	if title == "" {
		title = "喵片 " + time.Now().Format("2006-01-02 15:04")
	}

	pic := models.CatPic{Title: title, ImageURL: url}
	if err := c.db.Create(&pic).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50018, "failed to save pic")
		return
	}
	metrics.Uploads.WithLabelValues("pic").Inc()
	utils.Success(ctx, pic)
}

// DeletePic removes a photo from the gallery.
func (c *CatController) DeletePic(ctx *gin.Context) {
	res := c.db.Delete(&models.CatPic{}, ctx.Param("id"))
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50019, "failed to delete pic")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "pic not found")
		return
	}
	utils.Success(ctx, gin.H{"message": "pic deleted"})
}

// parsePagination normalizes page and page_size query params.
func parsePagination(pageStr, sizeStr string) (int, int) {
	page, pageSize := 1, 20
	if v := strings.TrimSpace(pageStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}
	if v := strings.TrimSpace(sizeStr); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}
	return page, pageSize
}

func paginationMeta(page, pageSize int, total int64) gin.H {
	return gin.H{
		"page":        page,
		"page_size":   pageSize,
		"total":       total,
		"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
}
