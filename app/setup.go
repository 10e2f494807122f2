package app

import (
	"fmt"

	"github.com/coursekart/api/api"
	"github.com/coursekart/api/config"
	"github.com/coursekart/api/database"
	"github.com/coursekart/api/router"
	"github.com/coursekart/api/services/cron"
	"gorm.io/gorm"
)

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	cfg, err := config.Get()
	if err != nil {
		return err
	}

	// Initialize GORM database connection
	store, err := database.StartGORM()
	if err != nil {
		print("Check whether Postgres is running\n")
		return err
	}

	if err := store.Init(); err != nil {
		print("Failed to initialize database tables\n")
		return err
	}

	// Reconciliation sweep (enabled unless CRON_ENABLED=false)
	var cronManager *cron.CronManager
	if cfg.CRON_ENABLED {
		db, ok := store.GetDB().(*gorm.DB)
		if !ok {
			print("Warning: failed to get database connection for cron jobs\n")
		} else {
			cronManager = cron.NewCronManager(db)
			if err := cronManager.Start(); err != nil {
				// Keep serving; the reconciliation sweep is a safety net,
				// not a dependency of the request path.
				print("Warning: failed to start cron jobs: ", err.Error(), "\n")
			}
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", cfg.PORT))
	app := server.GetEngine()

	// Setup Routes (middleware is attached inside)
	router.SetupRoutes(app, store, cfg)

	return server.Run()
}
