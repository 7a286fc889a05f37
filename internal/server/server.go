// Package server assembles the store, directory, web UI and JSON API into
// one HTTP server.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Praveenjayasiri/Simple-User-Management-System/db"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/api"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/auth"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/config"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/directory"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/logger"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/metrics"
	"github.com/Praveenjayasiri/Simple-User-Management-System/internal/web"
	"github.com/Praveenjayasiri/Simple-User-Management-System/middleware"
	"github.com/Praveenjayasiri/Simple-User-Management-System/models"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg       *config.Config
	log       *logger.Logger
	router    *mux.Router
	http      *http.Server
	sqliteDB  *sql.DB
	factory   *db.RepositoryFactory
	store     db.UserRepository
	Directory *directory.Directory
}

// New builds every component from cfg. Close releases the store.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	s := &Server{cfg: cfg, log: log}

	if cfg.StoreBackend == config.BackendSQLite {
		sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := db.InitializeSchema(sqliteDB); err != nil {
			sqliteDB.Close()
			return nil, err
		}
		s.sqliteDB = sqliteDB
		log.Infow("using SQLite store", "path", cfg.SQLitePath)
	} else {
		log.Infow("using in-memory store")
	}

	var seed []models.User
	if cfg.SeedUsers {
		seed = db.DefaultUsers()
	}

	s.factory = db.NewRepositoryFactory(s.sqliteDB)
	store, err := s.factory.NewUserRepository(ctx, seed)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create user store: %w", err)
	}
	s.store = store

	dir, err := directory.New(ctx, store)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("load directory: %w", err)
	}
	s.Directory = dir

	m := metrics.New()
	webHandler, err := web.NewWebHandler(store, dir, cfg, log, m)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("create web handler: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecretKey), cfg.JWTTTL)
	apiHandler := api.NewHandler(store, dir, tokens, log, m)

	s.router = webHandler.SetupRoutes()
	apiHandler.RegisterRoutes(s.router, cfg.CORSAllowedOrigins)
	s.router.Use(middleware.LoggingMiddleware(log, m))

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("server is starting", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Infow("shutting down the server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close stops the write serializer and releases the store. The SQLite
// store owns its handle once created.
func (s *Server) Close() {
	if s.factory != nil {
		s.factory.Close()
	}
	switch {
	case s.store != nil:
		if err := s.store.Close(); err != nil {
			s.log.Warnw("close store", "error", err)
		}
	case s.sqliteDB != nil:
		if err := s.sqliteDB.Close(); err != nil {
			s.log.Warnw("close sqlite", "error", err)
		}
	}
	s.store, s.sqliteDB, s.factory = nil, nil, nil
}
