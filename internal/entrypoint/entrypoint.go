package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lectern/readerdata/internal/catalog"
	"github.com/lectern/readerdata/internal/config"
	"github.com/lectern/readerdata/internal/database"
	"github.com/lectern/readerdata/internal/database/access"
	"github.com/lectern/readerdata/internal/database/bookmarks"
	"github.com/lectern/readerdata/internal/database/collections"
	"github.com/lectern/readerdata/internal/database/highlights"
	"github.com/lectern/readerdata/internal/database/preferences"
	http_controllers "github.com/lectern/readerdata/internal/http"
	"github.com/lectern/readerdata/internal/scheduler"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting readerdata v%s", version)

	// User-data store. An open or migration failure is fatal for the
	// install, nothing is recovered here.
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize user-data store: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing user-data store: %v", err)
		}
	}()

	// Book-content catalog, with the user-data store attached so
	// collection queries can join across both.
	books, err := catalog.NewDatabase(cfg.Database.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to open book catalog: %v", err)
	}
	defer func() {
		if err := books.Close(); err != nil {
			log.Printf("Error closing book catalog: %v", err)
		}
	}()
	if err := books.AttachUserData(cfg.Database.Path); err != nil {
		log.Fatalf("Failed to attach user-data store to catalog: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Bookmarks:   bookmarks.NewRepository(db.DB, books),
		Highlights:  highlights.NewRepository(db.DB, books),
		Preferences: preferences.NewRepository(db.DB),
		Access:      access.NewRepository(db.DB, books),
		Collections: collections.NewRepository(db.DB, books, books),
		Health:      http_controllers.NewHealthController(db, version),
	})

	var maintenance *scheduler.MaintenanceScheduler
	if cfg.Maintenance.Enabled {
		maintenance = scheduler.NewMaintenanceScheduler(db, cfg.Maintenance.Schedule)
		if err := maintenance.Start(); err != nil {
			log.Printf("WARNING: Failed to start maintenance scheduler: %v", err)
		}
	}

	Serve(router, cfg, func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
	})
}
