package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm/logger"

	"repodocs/internal/database"
	"repodocs/internal/server"
	"repodocs/internal/services"
	"repodocs/internal/utils"
)

func main() {
	if err := utils.LoadEnv(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	logLevel := logger.Warn
	if database.IsDevelopment() {
		logLevel = logger.Info
	}
	db, err := database.Init(database.Config{
		Path:     os.Getenv("REPODOCS_DB_PATH"),
		LogLevel: logLevel,
	})
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("error accessing database handle: %v", err)
	}
	defer sqlDB.Close()

	svcs, err := services.NewServices(db, services.GenerationConfig{
		WorkDir:  os.Getenv("REPODOCS_WORK_DIR"),
		Workers:  utils.GetenvInt("REPODOCS_WORKERS", 0),
		Attempts: utils.GetenvInt("REPODOCS_LLM_ATTEMPTS", 0),
	})
	if err != nil {
		log.Fatalf("error building services: %v", err)
	}

	srv := server.New(server.Config{
		Addr:        utils.GetenvDefault("REPODOCS_ADDR", ":8080"),
		AllowOrigin: os.Getenv("REPODOCS_ALLOW_ORIGIN"),
	}, svcs.Generation, svcs.Runs, svcs.Models)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("received %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}
