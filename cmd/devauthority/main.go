package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/99minutos/admin-console/internal/devauthority"
	"github.com/99minutos/admin-console/internal/pkg/config"
	"github.com/99minutos/admin-console/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "devauthority",
	})

	auth := devauthority.NewAuthority(cfg.Dev.JWTSecret, cfg.Dev.TokenTTL)
	if err := auth.Seed(); err != nil {
		log.Fatal().Err(err).Msg("seed accounts")
	}

	e := devauthority.NewServer(auth, cfg.API.Prefix, log)
	addr := ":" + cfg.Dev.Port

	go func() {
		log.Info().Str("addr", addr).Str("prefix", cfg.API.Prefix).Msg("dev authority listening; accounts admin/Admin@123 and user/User@123")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}
