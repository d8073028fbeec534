package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"
	"github.com/go-chi/render"
	"github.com/tendant/simple-push/pkg/simplepush"
	"github.com/tendant/simple-push/pkg/simplepush/api"
	"github.com/tendant/simple-push/pkg/simplepush/config"
)

func main() {
	serverConfig, err := config.LoadServerConfig()
	if err != nil {
		slog.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := serverConfig.BuildStore(ctx)
	if err != nil {
		slog.Error("Failed to build resource backend", "error", err)
		os.Exit(1)
	}

	newBuffer := func() *simplepush.Buffer {
		return simplepush.New(
			simplepush.WithEncoding(serverConfig.Encoding),
			simplepush.WithResourceOpener(store),
		)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: routes(serverConfig, newBuffer, store),
	}

	go func() {
		slog.Info("Simple Push Server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"encoding", serverConfig.Encoding,
			"resource_backend", serverConfig.DefaultResourceBackend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

func routes(cfg *config.ServerConfig, newBuffer func() *simplepush.Buffer, store simplepush.ResourceStore) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	channelHandler := api.NewChannelHandler(newBuffer)
	resourceHandler := api.NewResourceHandler(store)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTSecret != "" {
			tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)
			r.Use(jwtauth.Verifier(tokenAuth))
			r.Use(jwtauth.Authenticator)
		}

		r.Mount("/channels", channelHandler.Routes())
		r.Mount("/resources", resourceHandler.Routes())
	})

	return r
}
