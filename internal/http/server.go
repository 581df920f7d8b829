// Package http exposes the recurring definitions, their derived views,
// notifications and settings as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/recurrence"

	"github.com/shopspring/decimal"
)

// Amounts are JSON numbers on the wire.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// RecurringAPI is the recurring definition service behind /api/recurring.
type RecurringAPI interface {
	List(ctx context.Context) ([]core.RecurringDefinition, error)
	Get(ctx context.Context, id string) (core.RecurringDefinition, error)
	Create(ctx context.Context, def core.RecurringDefinition) (core.RecurringDefinition, error)
	Update(ctx context.Context, id string, def core.RecurringDefinition) (core.RecurringDefinition, error)
	Toggle(ctx context.Context, id string) (core.RecurringDefinition, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (recurrence.MonthlyTotals, error)
	Upcoming(ctx context.Context, now time.Time) (recurrence.Classification, error)
}

// TransactionAPI is the ledger service behind /api/transactions.
type TransactionAPI interface {
	Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	List(ctx context.Context, recurringID string) ([]core.Transaction, error)
}

// OccurrenceProcessor books due occurrences.
type OccurrenceProcessor interface {
	ProcessDue(ctx context.Context, now time.Time) (int, error)
}

// ReminderSyncer raises reminders for due and upcoming occurrences.
type ReminderSyncer interface {
	Sync(ctx context.Context, now time.Time) (int, error)
}

type NotificationStore interface {
	ListNotifications(ctx context.Context) ([]core.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	DeleteNotification(ctx context.Context, id string) error
}

type SettingsStore interface {
	GetSettings(ctx context.Context) (core.Settings, error)
	UpdateSettings(ctx context.Context, s core.Settings) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the server routes to. Now defaults to time.Now
// and Logger to the default slog logger.
type Deps struct {
	Recurring          RecurringAPI
	Transactions       TransactionAPI
	Processor          OccurrenceProcessor
	Reminders          ReminderSyncer
	Notifications      NotificationStore
	Settings           SettingsStore
	Health             Pinger
	RateLimitPerMinute int
	Logger             *applog.Logger
	Now                func() time.Time
}

type Server struct {
	http.Server
	deps    Deps
	limiter *ratelimit.Limiter

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = applog.FromContext(context.Background())
	}

	s := &Server{
		deps:    deps,
		limiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/recurring", s.handleListRecurring)
	mux.HandleFunc("POST /api/recurring", s.handleCreateRecurring)
	mux.HandleFunc("GET /api/recurring/stats", s.handleRecurringStats)
	mux.HandleFunc("GET /api/recurring/notifications", s.handleRecurringNotifications)
	mux.HandleFunc("POST /api/recurring/process", s.handleProcessRecurring)
	mux.HandleFunc("GET /api/recurring/{id}", s.handleGetRecurring)
	mux.HandleFunc("PUT /api/recurring/{id}", s.handleUpdateRecurring)
	mux.HandleFunc("DELETE /api/recurring/{id}", s.handleDeleteRecurring)
	mux.HandleFunc("POST /api/recurring/{id}/toggle", s.handleToggleRecurring)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)

	mux.HandleFunc("GET /api/notifications", s.handleListNotifications)
	mux.HandleFunc("PUT /api/notifications/{id}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("DELETE /api/notifications/{id}", s.handleDeleteNotification)

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	resolver := security.NewClientIPResolver()
	var handler http.Handler = mux
	handler = s.limiter.Middleware(resolver.ClientIP, handleRateLimited)(handler)
	handler = recoverer(handler)
	handler = security.HeadersMiddleware(handler)
	handler = applog.Middleware(deps.Logger, trace.FromRequest, resolver.ClientIP)(handler)
	handler = trace.NewMiddleware().Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown gracefully shuts down the server and the rate limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// recoverer turns a handler panic into a JSON 500.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				applog.FromContext(r.Context()).ErrorContext(r.Context(), "Handler panicked", "panic", rec)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	applog.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded", "path", r.URL.Path)
	writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		if err := s.deps.Health.Ping(r.Context()); err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Readiness check failed", "error", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
