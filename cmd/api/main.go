package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"goanova/adapters/api"
	"goanova/adapters/dist"
	"goanova/adapters/linmodel"
	"goanova/adapters/postgres"
	"goanova/app"
	"goanova/internal"
	"goanova/internal/config"
	"goanova/ports"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)
	logger := internal.NewDefaultLogger()

	var runs ports.RunRepository
	if cfg.Database.Enabled {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("database connect: %v", err)
		}
		if err := postgres.Migrate(context.Background(), db); err != nil {
			log.Fatalf("database migrate: %v", err)
		}
		runs = postgres.NewRunRepository(db)
		logger.Info("run persistence enabled")
	} else {
		logger.Warn("DATABASE_URL not set, runs will not be stored")
	}

	service := app.NewAnalysisService(dist.NewGonumProvider(), linmodel.NewOLSFitter(), runs)
	server := api.NewServer(service, runs, logger, cfg.Analysis.Alpha)

	if err := server.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
