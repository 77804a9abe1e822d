package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"taskdeck/internal/api/handler"
	"taskdeck/internal/api/middleware"
	"taskdeck/internal/api/router"
	"taskdeck/internal/cache"
	"taskdeck/internal/config"
	"taskdeck/internal/core/repository"
	"taskdeck/internal/core/service"
)

func main() {
	cfg := config.LoadConfig()
	mongoConfig := config.NewMongoConfig()

	// Connect to MongoDB
	client, db, err := config.ConnectMongoDB(mongoConfig)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Optional Redis-backed token revocation
	revocationCache := cache.New(cfg.RedisURL)

	// Initialize repositories
	userRepo := repository.NewMongoUserRepository(db)
	taskRepo := repository.NewMongoTaskRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, revocationCache, cfg.JWTSecret, cfg.TokenValidity)
	taskService := service.NewTaskService(taskRepo, userRepo)
	userService := service.NewUserService(userRepo, taskRepo)

	// Initialize handlers and router
	authHandler := handler.NewAuthHandler(authService, cfg.TokenValidity)
	taskHandler := handler.NewTaskHandler(taskService)
	userHandler := handler.NewUserHandler(userService)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	r := router.NewRouter(authHandler, taskHandler, userHandler, authMiddleware)

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}
	revocationCache.Close()
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Printf("MongoDB disconnect error: %v", err)
	}
}
