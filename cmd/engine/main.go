package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/NgocChung1998/BabyCare/internal/adapters/cache"
	"github.com/NgocChung1998/BabyCare/internal/adapters/handler"
	"github.com/NgocChung1998/BabyCare/internal/adapters/outbox"
	"github.com/NgocChung1998/BabyCare/internal/adapters/repository"
	"github.com/NgocChung1998/BabyCare/internal/config"
	"github.com/NgocChung1998/BabyCare/internal/core/services"
	"github.com/NgocChung1998/BabyCare/internal/metrics"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	activityRepo := repository.NewActivityRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	vaccineRepo := repository.NewVaccineRepository(db)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	scheduler, err := services.NewReminderScheduler(recorder)
	if err != nil {
		log.Fatalf("failed to create reminder scheduler: %v", err)
	}

	notifier := outbox.NewWriter(db)
	prefs := cache.NewQuietPrefCache(redisClient, groupRepo)
	gate := services.NewNotificationGate(prefs, notifier, scheduler, cfg.QuietWindow, cfg.Location, recorder)

	groupService := services.NewGroupService(groupRepo, gate, cfg.InviteKey)
	tracker := services.NewStateTracker(activityRepo)

	engine := services.NewEngine(
		activityRepo,
		tracker,
		scheduler,
		groupService,
		gate,
		groupService,
		cfg.OvernightWindow,
		cfg.Location,
	)

	planner := services.NewVaccinePlanner(vaccineRepo, groupService, gate, cfg.Location)

	// Rebuild reminder coverage lost with the previous process before the
	// scheduler starts firing.
	bootstrap := services.NewRecoveryBootstrap(activityRepo, tracker, engine)
	if err := bootstrap.Run(ctx); err != nil {
		log.Printf("recovery bootstrap finished with errors: %v", err)
	}

	if err := engine.ScheduleRecurring(planner); err != nil {
		log.Fatalf("failed to register recurring jobs: %v", err)
	}
	scheduler.Start()

	healthHandler := handler.NewHealthHandler(db, redisClient, scheduler)

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %s\n", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("received signal %v, shutting down...", sig)

	if err := scheduler.Shutdown(); err != nil {
		log.Printf("error shutting down scheduler: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("error shutting down server: %v", err)
	}

	log.Println("shutdown complete")
}
