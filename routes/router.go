package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/justyn/meow/checkin"
	"github.com/justyn/meow/config"
	"github.com/justyn/meow/controllers"
	"github.com/justyn/meow/metrics"
	"github.com/justyn/meow/middleware"
	"github.com/justyn/meow/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, store *checkin.Store) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	ginLogPath := cfg.GinPath
	// Use application log level as reference
	gl, err := utils.NewRollingFileLogger(ginLogPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	// Record PV after each request
	r.Use(middleware.PageViewRecorder(db))

	r.Static("/static", "./static")

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	authController := controllers.NewAuthController(db, store)
	checkInController := controllers.NewCheckInController(store)
	catController := controllers.NewCatController(db)
	fmController := controllers.NewFmController(db)
	wikiController := controllers.NewWikiController(db)
	statsController := controllers.NewStatsController(db)

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit())
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	// Public catalog reads
	api.GET("/cats", catController.ListProfiles)
	api.GET("/cats/:id", catController.GetProfile)
	api.GET("/pics", catController.ListPics)
	api.GET("/fm", fmController.ListTracks)
	api.GET("/fm/:id", fmController.GetTrack)
	api.GET("/wiki", wikiController.ListPages)
	api.GET("/wiki/:slug", wikiController.GetPage)
	api.GET("/stats", statsController.GetStats)

	// Authenticated writes
	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimit())
	protected.POST("/cats", catController.CreateProfile)
	protected.PUT("/cats/:id", catController.UpdateProfile)
	protected.DELETE("/cats/:id", catController.DeleteProfile)
	protected.POST("/cats/:id/avatar", catController.UploadAvatar)
	protected.POST("/pics", catController.UploadPic)
	protected.DELETE("/pics/:id", catController.DeletePic)
	protected.POST("/fm", fmController.CreateTrack)
	protected.PUT("/fm/:id", fmController.UpdateTrack)
	protected.DELETE("/fm/:id", fmController.DeleteTrack)
	protected.POST("/fm/:id/audio", fmController.UploadAudio)
	protected.PUT("/wiki/:slug", wikiController.PutPage)

	checkinGroup := api.Group("/checkin")
	checkinGroup.Use(middleware.AuthRequired())
	checkinGroup.POST("/daily", checkInController.Daily)
	checkinGroup.GET("/status", checkInController.Status)
	checkinGroup.GET("/dates", checkInController.Dates)
	checkinGroup.GET("/calendar", checkInController.Calendar)

	r.NoRoute(func(ctx *gin.Context) {
		path := ctx.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, utils.CodeNotFound, "api route not found")
			return
		}
		ctx.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	})

	return r
}
