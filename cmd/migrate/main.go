package main

import (
	"context"
	"flag"
	"time"

	"github.com/sirupsen/logrus"

	"economy/internal/config"
	"economy/internal/infrastructure/database"
	"economy/internal/plugin"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	logger, err := plugin.NewLogger(&cfg.Log)
	if err != nil {
		logrus.WithError(err).Fatal("build logger")
	}
	log := logrus.NewEntry(logger)

	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := database.Migrate(ctx, db); err != nil {
		log.WithError(err).Fatal("migrate")
	}
	log.WithField("driver", cfg.Database.Driver).Info("schema up to date")
}
