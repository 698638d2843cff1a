package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"taskStore/internal/app"
	"taskStore/internal/config"
	"taskStore/internal/logger"
)

func main() {
	configPath := flag.String("config", "config.yml", "путь к файлу конфигурации")
	flag.Parse()

	if err := config.LoadEnv(); err != nil {
		log.Fatalf("окружение: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("конфигурация: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		_ = a.Shutdown(context.Background())
		log.Fatalf("инициализация: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		logger.Error("Сервер завершился с ошибкой", err)
		logger.Sync()
		log.Fatal(err)
	}
}
