// main is the entry point of the student management service.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the storage backend and load the roster into the registry
//  4. Register all HTTP routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block the main goroutine until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/studentms --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/studentms
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mustafa-murtaza/studentms/internal/config"
	"github.com/mustafa-murtaza/studentms/internal/http/handlers/dashboard"
	"github.com/mustafa-murtaza/studentms/internal/http/handlers/student"
	"github.com/mustafa-murtaza/studentms/internal/http/middleware"
	"github.com/mustafa-murtaza/studentms/internal/registry"
	"github.com/mustafa-murtaza/studentms/internal/storage"
	"github.com/mustafa-murtaza/studentms/internal/storage/flatfile"
	"github.com/mustafa-murtaza/studentms/internal/storage/sqlite"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	// MustLoad reads the YAML config and panics if anything is wrong.
	// If this returns, config is guaranteed valid.
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	// slog is Go's structured logger (stdlib since Go 1.21). Set it as
	// the default so package-level slog calls in handlers and storage
	// use the same sink and format.
	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting studentms",
		slog.String("env", cfg.Env),
		slog.String("version", "1.0.0"),
	)

	// ── 3. Initialise Storage + Registry ──────────────────────────────────
	// The registry only sees the storage.Persister INTERFACE, so the
	// backend is a pure config decision.
	var persist storage.Persister
	var err error
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		persist, err = sqlite.New(cfg)
	case config.DriverFlatfile:
		persist, err = flatfile.New(cfg)
	default:
		log.Error("unknown storage driver", slog.String("driver", cfg.StorageDriver))
		os.Exit(1)
	}
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	reg, err := registry.New(cfg, persist)
	if err != nil {
		log.Error("failed to load roster",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("roster loaded",
		slog.String("driver", cfg.StorageDriver),
		slog.String("path", cfg.StoragePath),
		slog.Int("students", reg.Len()))

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	// The handler functions (student.New, student.GetByID, etc.) are
	// FACTORIES — they receive the registry and return the actual handler.
	//
	// Route table:
	//   POST   /api/students                 → create a new student
	//   GET    /api/students                 → list all students
	//   GET    /api/students/search          → search by name or id
	//   GET    /api/students/export          → download roster as CSV
	//   POST   /api/students/import          → bulk import from CSV
	//   GET    /api/students/{id}            → get one student by ID
	//   PUT    /api/students/{id}            → update a student (partial)
	//   DELETE /api/students/{id}            → delete a student
	//   GET    /api/students/{id}/available  → is this id free?
	//   GET    /api/analytics                → statistics snapshot
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(reg))
	router.HandleFunc("GET /api/students", student.GetList(reg))
	router.HandleFunc("GET /api/students/search", student.Search(reg))
	router.HandleFunc("GET /api/students/export", student.Export(reg))
	router.HandleFunc("POST /api/students/import", student.Import(reg))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(reg))
	router.HandleFunc("PUT /api/students/{id}", student.Update(reg))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(reg))
	router.HandleFunc("GET /api/students/{id}/available", student.Available(reg))
	router.HandleFunc("GET /api/analytics", dashboard.Analytics(reg))

	// Middleware wraps the whole mux. RequestID must be outermost:
	// it enriches the request context, and only handlers inside it —
	// the access logger included — see the enriched request.
	handler := middleware.RequestID(middleware.Logger(log)(router))

	// ── 5. Create the HTTP Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr, // e.g. "localhost:8082"
		Handler: handler,

		// Production hardening — set timeouts to prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// ── 6. Start Server in a Goroutine ────────────────────────────────────
	// ListenAndServe blocks forever, so it runs in its own goroutine and
	// leaves main free to wait for the shutdown signal.
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		// ListenAndServe returns http.ErrServerClosed when Shutdown() is
		// called. That's expected — we don't want to log it as an error.
		if err := server.ListenAndServe(); err != nil &&
			err != http.ErrServerClosed {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 7. Wait for Shutdown Signal ───────────────────────────────────────
	// Buffered so we don't miss the signal if main is briefly busy.
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	// Give in-flight requests up to 5 seconds to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
//	JSON logs are easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
