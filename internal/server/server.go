// package server contains middleware & handlers for the SquadCast conferencing app
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/squadcast/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers that own their routes.
// Implementations handle specific endpoints (add, capture, bookings).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Deps are the collaborators the app's HTTP surface needs.
type Deps struct {
	Users       UserStore
	Sessions    SessionResolver
	Credentials CredentialStore
	EventTypes  EventTypeStore
	Shows       ShowLister
	Lifecycle   Lifecycle
	Secret      string    // Credential encryption key
	Pages       []Handler // Extra handlers such as the setup page
	Logger      *log.Logger
}

// New builds the router with middleware and every app route registered.
func New(deps Deps) *BasicRouter {
	logger := deps.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	r := NewBasicRouter()
	r.Use(Logging(logger), Recovery(logger), Session(deps.Sessions, logger))

	r.HandleFunc(http.MethodGet, "/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Handler(NewAddHandler(deps.Users, deps.Credentials, deps.Secret, logger))
	r.Handler(NewCaptureHandler(deps.Credentials, deps.Shows, deps.Secret, logger))
	r.Handler(NewEventTypeAppHandler(deps.EventTypes, logger))
	r.Handler(NewBookingsHandler(deps.Users, deps.Lifecycle, logger))

	for _, page := range deps.Pages {
		r.Handler(page)
	}

	return r
}

// Serve runs handler on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	logger.Info("Server shutdown complete")
	return nil
}
