package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/citypulse/citypulse/internal/config"
	"github.com/citypulse/citypulse/internal/database"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

// Application wires configuration, storage, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	db     *pgxpool.Pool
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context, cfg config.Application) (*Application, error) {
	var db *pgxpool.Pool
	if cfg.Storage.Type == config.StoragePostgres {
		if err := database.Migrate(cfg.Database); err != nil {
			return nil, err
		}
		pool, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		db = pool
	}

	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, err
	}

	r := mux.NewRouter()
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      SetupMiddleware(r, cfg),
		Addr:         cfg.Server.Addr,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, db: db, deps: deps, router: r, srv: srv}, nil
}

// Handler returns the fully wrapped HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.srv.Handler
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer a.close()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s (city: %s)", a.srv.Addr, a.cfg.City.Name)
		errCh <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}

func (a *Application) close() {
	if a.db != nil {
		a.db.Close()
	}
}
