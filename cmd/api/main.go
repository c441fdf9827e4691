package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tasktracker-app/tasktracker-backend/config"
	"github.com/tasktracker-app/tasktracker-backend/internal/bootstrap"
	"github.com/tasktracker-app/tasktracker-backend/internal/dashboard"
	"github.com/tasktracker-app/tasktracker-backend/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	database, err := db.Open(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	if rdb == nil {
		log.Println("REDIS_ADDR not set, dashboard cache disabled")
	} else {
		defer rdb.Close()

		statsService := dashboard.NewService(dashboard.NewRepo(database.Pool), rdb, 0)
		warmer, err := dashboard.NewWarmer(statsService, "@every 5m")
		if err != nil {
			log.Fatalf("create cache warmer: %v", err)
		}
		warmer.Start()
		defer warmer.Stop()
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: "tasktracker-api",
		Version:     cfg.App.Version,
		DB:          database.Pool,
		Redis:       rdb,
		Cfg:         cfg,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
