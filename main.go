package main

import (
	"github.com/justyn/meow/checkin"
	"github.com/justyn/meow/config"
	"github.com/justyn/meow/models"
	"github.com/justyn/meow/routes"
	"github.com/justyn/meow/seed"
	"github.com/justyn/meow/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.CatProfile{},
		&models.CatPic{},
		&models.FmTrack{},
		&models.WikiPage{},
		&models.Preference{},
		&models.PageView{},
	)

	appPrefs := checkin.NewGormPrefs(db, checkin.PrefsName)
	if err := seed.Run(db, appPrefs, cfg.DefaultWikiSlug); err != nil {
		utils.Sugar.Fatalf("seeding failed: %v", err)
	}

	checkinPrefs := checkin.NewGormPrefs(db, checkin.CheckInPrefs)
	store := checkin.NewStore(checkinPrefs, utils.Sugar)

	r := routes.SetupRouter(db, store)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
