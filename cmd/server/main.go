/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the crew payroll server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags and environment
  2. Open the store (SQLite, or the legacy flat-file directory)
  3. Build the session issuer and API handler
  4. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: payroll.db; ":memory:" works)
  -data    Legacy flat-file directory (ouvriers.csv / pointage.csv /
           acomptes.csv). When set, takes precedence over -db.

ENVIRONMENT:
  PAYROLL_ADMIN_USER      Operator username (default: admin)
  PAYROLL_ADMIN_PASSWORD  Operator password (default: admin - dev only)
  PAYROLL_JWT_SECRET      Session token signing secret

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, drain active requests
  (30s timeout), close the store, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite, store/flatfile: Storage backends
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/auth"
	"github.com/warp/payroll-engine/payroll"
	"github.com/warp/payroll-engine/store/flatfile"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "payroll.db", "SQLite database path")
	dataDir := flag.String("data", "", "legacy flat-file data directory (overrides -db)")
	flag.Parse()

	// Store: legacy flat files when -data is set, SQLite otherwise.
	var store payroll.Store
	if *dataDir != "" {
		fileStore, err := flatfile.New(*dataDir)
		if err != nil {
			log.Fatalf("Failed to open data directory: %v", err)
		}
		store = fileStore
		log.Printf("Using legacy flat files in %s", *dataDir)
	} else {
		dbStore, err := sqlite.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		store = dbStore
	}

	// Sessions
	username := getEnv("PAYROLL_ADMIN_USER", "admin")
	password := os.Getenv("PAYROLL_ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("Warning: PAYROLL_ADMIN_PASSWORD not set, using default credential")
	}
	secret := getEnv("PAYROLL_JWT_SECRET", "dev-secret-change-in-production")

	sessions, err := auth.NewSessions(username, password, secret, 12*time.Hour)
	if err != nil {
		log.Fatalf("Failed to initialize sessions: %v", err)
	}

	// Router
	handler := api.NewHandler(store, sessions)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	if closer, ok := store.(io.Closer); ok {
		closer.Close()
	}
	log.Println("Server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
