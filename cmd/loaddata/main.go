package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"barber_backend/database"
	"barber_backend/internal/config"
	"barber_backend/internal/loader"
	"barber_backend/internal/logger"
)

func main() {
	var dumpPath string
	var configPath string

	flag.StringVar(&dumpPath, "file", "dump.json", "Path to the JSON dump")
	flag.StringVar(&configPath, "config", "", "Path to config.yaml (default: CONFIG_PATH or config/config.yaml)")
	flag.Parse()

	os.Exit(run(dumpPath, configPath))
}

func run(dumpPath, configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	logger.Init(cfg.Server.Env)

	f, err := os.Open(dumpPath)
	if err != nil {
		logger.Error("Failed to open dump", "path", dumpPath, "error", err)
		return 1
	}
	defer f.Close()

	records, err := loader.ReadDump(f)
	if err != nil {
		logger.Error("Failed to read dump", "path", dumpPath, "error", err)
		return 1
	}

	db, err := database.Open(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		return 1
	}
	if err := database.AutoMigrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.Info("Loading dump", "path", dumpPath, "records", len(records), "order", cfg.Loader.Order)
	report, err := loader.New(cfg.Loader.Order).Load(ctx, db, dumpPath, records)
	if err != nil {
		logger.Error("Failed to save import run", "error", err)
	}

	for _, seg := range report.Segments {
		switch seg.Status {
		case loader.StatusLoaded:
			fmt.Printf("Успешно загружены данные для %s (%d)\n", seg.Model, seg.Count)
		case loader.StatusSkipped:
			fmt.Printf("Пропущено: %s (%d), загрузчик не зарегистрирован\n", seg.Model, seg.Count)
		case loader.StatusFailed:
			fmt.Printf("Ошибка при загрузке %s: %s\n", seg.Model, seg.Error)
		}
	}
	for model, count := range report.Ignored {
		fmt.Printf("Не в порядке загрузки, проигнорировано: %s (%d)\n", model, count)
	}

	if report.Failed() || err != nil {
		return 1
	}
	return 0
}
