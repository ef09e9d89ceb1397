// Package http exposes the ledger engine as a JSON API. Handlers stay
// thin: identity comes from the auth middleware, date scopes from
// internal/period, filtering and aggregation from internal/ledger, and
// persistence from the storage collaborator.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/event"
	"fintrack/internal/importer"
	"fintrack/internal/ledger"
)

// Store is everything the handlers need from persistence. Implemented
// by storage.SQLiteRepository.
type Store interface {
	RecordsByOwner(ctx context.Context, ownerID int64) ([]core.Record, error)
	RecordByID(ctx context.Context, ownerID, id int64) (core.Record, error)
	CreateRecord(ctx context.Context, rec core.Record) (core.Record, error)
	UpdateRecord(ctx context.Context, rec core.Record) (core.Record, error)
	DeleteRecord(ctx context.Context, ownerID, id int64) error

	CategoriesByOwner(ctx context.Context, ownerID int64) ([]core.Category, error)
	CategoryExists(ctx context.Context, ownerID int64, name string) (bool, error)
	CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error)
	RenameCategory(ctx context.Context, ownerID, id int64, newName string) (core.Category, error)
	DeleteCategory(ctx context.Context, ownerID, id int64) error
}

type Server struct {
	http.Server

	store    Store
	filter   *ledger.Filter
	pipeline *importer.Pipeline
	auth     *auth.Service
	events   *event.Publisher

	limiter *rateLimiter
}

func NewServer(addr string, store Store, pipeline *importer.Pipeline, authSvc *auth.Service, events *event.Publisher) *Server {
	s := &Server{
		store:    store,
		filter:   ledger.NewFilter(store),
		pipeline: pipeline,
		auth:     authSvc,
		events:   events,
		limiter:  newRateLimiter(10, time.Minute),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", s.handleRegister)
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("GET /api/me", s.withAuth(s.handleMe))

	mux.HandleFunc("GET /api/categories", s.withAuth(s.handleListCategories))
	mux.HandleFunc("POST /api/categories", s.withAuth(s.handleCreateCategory))
	mux.HandleFunc("PUT /api/categories/{id}", s.withAuth(s.handleRenameCategory))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withAuth(s.handleDeleteCategory))

	mux.HandleFunc("GET /api/records", s.withAuth(s.handleListRecords))
	mux.HandleFunc("POST /api/records", s.withAuth(s.handleCreateRecord))
	mux.HandleFunc("GET /api/records/export/csv", s.withAuth(s.handleExportCSV))
	mux.HandleFunc("GET /api/records/export/pdf", s.withAuth(s.handleExportPDF))
	mux.HandleFunc("POST /api/records/import/csv", s.withAuth(s.handleImportCSV))
	mux.HandleFunc("GET /api/records/{id}", s.withAuth(s.handleGetRecord))
	mux.HandleFunc("PUT /api/records/{id}", s.withAuth(s.handleUpdateRecord))
	mux.HandleFunc("PATCH /api/records/{id}", s.withAuth(s.handleUpdateRecord))
	mux.HandleFunc("DELETE /api/records/{id}", s.withAuth(s.handleDeleteRecord))

	mux.HandleFunc("GET /api/summary", s.withAuth(s.handleSummary))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.traceMiddleware(mux),
	}
	return s
}

// Shutdown stops the server and its background cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.Server.Shutdown(ctx)
}

// rateLimiter is a small fixed-window per-client limiter guarding the
// login endpoint against credential stuffing.
type rateLimiter struct {
	mu       sync.Mutex
	window   time.Duration
	max      int
	clients  map[string]*clientWindow
	stopOnce sync.Once
	done     chan struct{}
}

type clientWindow struct {
	start    time.Time
	requests int
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		window:  window,
		max:     max,
		clients: make(map[string]*clientWindow),
		done:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) allow(client string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cw, ok := rl.clients[client]
	if !ok || now.Sub(cw.start) > rl.window {
		rl.clients[client] = &clientWindow{start: now, requests: 1}
		return true
	}
	cw.requests++
	return cw.requests <= rl.max
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			rl.mu.Lock()
			cutoff := time.Now().Add(-rl.window)
			for client, cw := range rl.clients {
				if cw.start.Before(cutoff) {
					delete(rl.clients, client)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}
