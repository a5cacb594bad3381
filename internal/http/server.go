// Package http exposes the budgeting service as a JSON API.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"buste/internal/cache"
	"buste/internal/csvio"
	"buste/internal/envelope"
	"buste/internal/ledger"
	applog "buste/internal/log"
	"buste/internal/services"

	"github.com/google/uuid"
)

// Deps carries everything the handlers need.
type Deps struct {
	Engine       *envelope.Engine
	Transactions *services.TransactionService
	Categories   *ledger.CategoryBook
	Events       *ledger.EventLog
	Settings     *ledger.SettingsRegistry
	Diag         *ledger.DiagLog
	Expenses     *ledger.FixedExpenseBook
	Porter       *csvio.Porter
	Backup       *services.BackupService
	Accounts     *services.AccountService
	Projector    *services.RecurringProjector
}

type Server struct {
	http.Server
	deps Deps

	summaryCache *cache.LRUCache[envelope.Summary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer wires the routes and returns a ready-to-run server.
func NewServer(addr string, deps Deps, summaryTTL time.Duration) *Server {
	mux := http.NewServeMux()

	httpLogger := applog.New(applog.DefaultConfig()).WithComponent("http")
	handler := applog.Middleware(httpLogger)(applog.RequestIDMiddleware(requestID)(mux))

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: handler,
		},
		deps:             deps,
		summaryCache:     cache.NewLRUCache[envelope.Summary](12, summaryTTL),
		stopCacheCleanup: make(chan struct{}),
	}
	go s.startCacheCleanup()

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /summary", s.withTrace(s.handleSummary))

	mux.HandleFunc("GET /transactions", s.withTrace(s.handleListTransactions))
	mux.HandleFunc("POST /transactions", s.withTrace(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /transactions/{id}", s.withTrace(s.handleDeleteTransaction))

	mux.HandleFunc("GET /categories", s.withTrace(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.withTrace(s.handleUpsertCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.withTrace(s.handleDeleteCategory))

	mux.HandleFunc("GET /envelopes", s.withTrace(s.handleEnvelopes))
	mux.HandleFunc("POST /envelopes/move", s.withTrace(s.handleMoveFunds))
	mux.HandleFunc("POST /envelopes/init", s.withTrace(s.handleMonthInit))

	mux.HandleFunc("GET /events", s.withTrace(s.handleListEvents))

	mux.HandleFunc("GET /settings", s.withTrace(s.handleGetSettings))
	mux.HandleFunc("PUT /settings", s.withTrace(s.handleSaveSettings))
	mux.HandleFunc("GET /diagnostics", s.withTrace(s.handleDiagnostics))
	mux.HandleFunc("DELETE /diagnostics", s.withTrace(s.handleClearDiagnostics))

	mux.HandleFunc("GET /expenses", s.withTrace(s.handleListExpenses))
	mux.HandleFunc("POST /expenses", s.withTrace(s.handleUpsertExpense))
	mux.HandleFunc("DELETE /expenses/{id}", s.withTrace(s.handleDeleteExpense))

	mux.HandleFunc("GET /export.csv", s.withTrace(s.handleExportCSV))
	mux.HandleFunc("POST /import.csv", s.withTrace(s.handleImportCSV))

	mux.HandleFunc("GET /backup", s.withTrace(s.handleCreateBackup))
	mux.HandleFunc("POST /restore", s.withTrace(s.handleRestoreBackup))

	mux.HandleFunc("GET /accounts", s.withTrace(s.handleListAccounts))
	mux.HandleFunc("POST /accounts", s.withTrace(s.handleLinkAccount))
	mux.HandleFunc("POST /accounts/{id}/fetch", s.withTrace(s.handleFetchAccount))
	mux.HandleFunc("DELETE /accounts/{id}", s.withTrace(s.handleUnlinkAccount))

	mux.HandleFunc("GET /cards", s.withTrace(s.handleListCards))
	mux.HandleFunc("POST /cards", s.withTrace(s.handleLinkCard))
	mux.HandleFunc("POST /cards/{id}/fetch", s.withTrace(s.handleFetchCard))
	mux.HandleFunc("DELETE /cards/{id}", s.withTrace(s.handleUnlinkCard))

	mux.HandleFunc("POST /accounts/refresh", s.withTrace(s.handleRefreshAll))
	mux.HandleFunc("GET /banks/{domain}/api", s.withTrace(s.handleLookupBankAPI))

	mux.HandleFunc("POST /recurring/run", s.withTrace(s.handleRunRecurring))

	return s
}

// requestID honors an X-Request-ID set by a proxy and mints one otherwise.
func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return "req_" + uuid.NewString()
}

// withTrace logs request start and completion. The request id is already an
// attribute of the context logger.
func (s *Server) withTrace(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		logger := applog.FromContext(ctx)

		logger.InfoContext(ctx, "Request started",
			"method", r.Method,
			"url", r.URL.Path)

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.summaryCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutine and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
