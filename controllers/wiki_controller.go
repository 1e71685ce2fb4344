package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justyn/meow/models"
	"github.com/justyn/meow/utils"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// WikiController serves the in-app wiki pages. Page HTML is sanitized on
// write, reads go through the redis cache.
type WikiController struct {
	db *gorm.DB
}

// NewWikiController creates a WikiController.
func NewWikiController(db *gorm.DB) *WikiController {
	return &WikiController{db: db}
}

// ListPages returns slug and title of every page.
func (w *WikiController) ListPages(ctx *gin.Context) {
	var pages []models.WikiPage
	if err := w.db.Select("id", "slug", "title", "updated_at").
		Order("slug ASC").Find(&pages).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50026, "failed to list wiki pages")
		return
	}
	utils.Success(ctx, gin.H{"items": pages})
}

// GetPage returns one wiki page by slug.
func (w *WikiController) GetPage(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if !slugPattern.MatchString(slug) {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid slug")
		return
	}

	// Try cache first
	if b, ok := utils.CacheGetBytes("cache:wiki:" + slug); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	var page models.WikiPage
	if err := w.db.Where("slug = ?", slug).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "wiki page not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to get wiki page")
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: page}
	utils.CacheSetJSON("cache:wiki:"+slug, wrapper, time.Hour)
	utils.Success(ctx, page)
}

// PutPage creates or replaces a wiki page. HTML is cleaned before storage.
func (w *WikiController) PutPage(ctx *gin.Context) {
	slug := strings.TrimSpace(ctx.Param("slug"))
	if !slugPattern.MatchString(slug) {
		utils.Error(ctx, http.StatusBadRequest, 40025, "invalid slug")
		return
	}

	var req struct {
		Title string `json:"title" binding:"required,min=1,max=128"`
		HTML  string `json:"html" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40026, "invalid request payload")
		return
	}

	clean := utils.Sanitize(req.HTML)

	var page models.WikiPage
	err := w.db.Where("slug = ?", slug).First(&page).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		page = models.WikiPage{Slug: slug, Title: strings.TrimSpace(req.Title), HTML: clean}
		if err := w.db.Create(&page).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50028, "failed to create wiki page")
			return
		}
	case err != nil:
		utils.Error(ctx, http.StatusInternalServerError, 50027, "failed to get wiki page")
		return
	default:
		page.Title = strings.TrimSpace(req.Title)
		page.HTML = clean
		if err := w.db.Save(&page).Error; err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50029, "failed to update wiki page")
			return
		}
	}

	utils.InvalidateByPrefix("cache:wiki:" + slug)
	utils.Success(ctx, page)
}
