package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/config"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/logger"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.New(logger.ErrorLevel).Errorw("failed to load configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	log.Infow("starting user management console",
		"pid", os.Getpid(),
		"env", cfg.Env,
		"backend", cfg.StoreBackend,
		"runtime", runtime.GOOS+"/"+runtime.GOARCH,
		"go", runtime.Version(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, log)
	if err != nil {
		log.Errorw("startup failed", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	if err := srv.Run(ctx); err != nil {
		log.Errorw("server stopped with error", "error", err)
		srv.Close()
		os.Exit(1)
	}
	log.Infow("services stopped")
}
