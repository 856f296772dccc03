package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/fetchora/fetchora/config"
	"github.com/fetchora/fetchora/internal/logging"
	"github.com/fetchora/fetchora/internal/pipeline"
	"github.com/fetchora/fetchora/internal/server"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}
	config.LoadEnv(env)
	logging.InitLogger()

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	fetchTimeout := fetchTimeoutSeconds()

	var origins []string
	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	handler := server.New(pipeline.NewDefault(), server.Config{
		AllowedOrigins: origins,
		FetchTimeout:   time.Duration(fetchTimeout) * time.Second,
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Long enough to render an export after the slowest allowed fetch.
		WriteTimeout: time.Duration(fetchTimeout)*time.Second + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Handle graceful shutdown
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-stopChan
	slog.Info("Shutting down server gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", slog.String("error", err.Error()))
	}
}

// fetchTimeoutSeconds reads FETCH_TIMEOUT. Unset, unparsable, and
// non-positive values all fall back to the default so the pipeline ceiling
// and the server write timeout are computed from the same number.
func fetchTimeoutSeconds() int {
	fetchTimeout, err := strconv.Atoi(os.Getenv("FETCH_TIMEOUT"))
	if err != nil || fetchTimeout <= 0 {
		fetchTimeout = 300 // Default to 5 minutes (in seconds)
	}
	return fetchTimeout
}
