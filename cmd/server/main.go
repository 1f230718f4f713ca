package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kanban-board-api/internal/config"
	"kanban-board-api/internal/database"
	"kanban-board-api/internal/handlers"
	"kanban-board-api/internal/proxy"
	"kanban-board-api/internal/realtime"
	"kanban-board-api/internal/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := realtime.NewHub()

	// Pick the backend behind the /api routes
	var tasks routes.TaskResource
	if cfg.StoreDriver == config.DriverProxy {
		fwd, err := proxy.New(cfg.UpstreamURL, cfg.HTTPTimeout, hub)
		if err != nil {
			log.Fatal("Failed to set up proxy: ", err)
		}
		log.Printf("Forwarding API requests to %s", cfg.UpstreamURL)
		tasks = fwd
	} else {
		store, err := database.Open(database.Options{
			Driver:     cfg.StoreDriver,
			Path:       cfg.DBPath,
			SQLitePath: cfg.SQLitePath,
			Debug:      cfg.Debug,
		})
		if err != nil {
			log.Fatal("Failed to open store: ", err)
		}
		defer store.Close()
		log.Printf("Using %s store", cfg.StoreDriver)
		tasks = handlers.NewTaskHandler(store, hub)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           routes.Handler(tasks, hub),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Println("API endpoints:")
	log.Println("  GET    /api/tasks")
	log.Println("  POST   /api/tasks")
	log.Println("  GET    /api/tasks/:id")
	log.Println("  PUT    /api/tasks/:id")
	log.Println("  PATCH  /api/tasks/:id")
	log.Println("  DELETE /api/tasks/:id")
	log.Println("  GET    /api/columns")
	log.Println("  POST   /api/reset")
	log.Println("  GET    /api/ws")
	log.Println("  GET    /health")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
