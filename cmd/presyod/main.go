package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"presyo/internal/config"
	"presyo/internal/pipeline"
	"presyo/internal/server"
	"presyo/internal/storage"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Require("INTERNAL_SECRET", cfg.SharedSecret); err != nil {
		return err
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel)); err == nil {
		log.SetLevel(level)
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	svc := pipeline.NewProcessingService(db, cfg, log)
	return server.New(cfg, svc, log).Run()
}
