package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-catalog/config"
	"github.com/pageza/recipe-catalog/internal/database"
	"github.com/pageza/recipe-catalog/internal/model"
)

func main() {
	reset := flag.Bool("reset", false, "Drop the snapshot table before migrating")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	log := cfg.NewLogger()

	db, err := database.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if *reset {
		if err := db.Migrator().DropTable(&model.RecipeRecord{}); err != nil {
			log.Fatalf("Failed to drop snapshot table: %v", err)
		}
		log.Info("snapshot table dropped")
	}

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Info("all migrations applied successfully")
}
