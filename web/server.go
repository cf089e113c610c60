// ABOUTME: HTTP routes for the HubSpot integration
// ABOUTME: Serves authorize, OAuth callback, credentials, and items endpoints as JSON
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/crmlink/hubspot"
	"github.com/harperreed/crmlink/models"
)

// Integration is the adapter surface the routes need.
type Integration interface {
	AuthorizationURL(userID, orgID string) string
	ExchangeCode(ctx context.Context, query url.Values) (*hubspot.Ack, error)
	Credentials(ctx context.Context, userID, orgID string) (*models.Credentials, error)
	Items(ctx context.Context, userID, orgID string) ([]models.IntegrationItem, error)
}

var _ Integration = (*hubspot.Adapter)(nil)

type Server struct {
	integration Integration
	logger      *log.Logger
}

func NewServer(integration Integration, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{integration: integration, logger: logger}
}

// Handler returns the routed handler, wrapped with request ids and logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/integrations/hubspot/authorize", s.handleAuthorize)
	mux.HandleFunc("/integrations/hubspot/oauth2callback", s.handleCallback)
	mux.HandleFunc("/integrations/hubspot/credentials", s.handleCredentials)
	mux.HandleFunc("/integrations/hubspot/items", s.handleItems)
	return s.withRequestID(mux)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Starting web server", "addr", addr)
		errChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("handled request", "method", r.Method, "path", r.URL.Path, "request_id", requestID, "duration", time.Since(start))
	})
}

func (s *Server) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	authURL := s.integration.AuthorizationURL(r.FormValue("user_id"), r.FormValue("org_id"))
	s.writeJSON(w, http.StatusOK, map[string]string{"url": authURL})
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	ack, err := s.integration.ExchangeCode(r.Context(), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ack)
}

func (s *Server) handleCredentials(w http.ResponseWriter, r *http.Request) {
	creds, err := s.integration.Credentials(r.Context(), r.FormValue("user_id"), r.FormValue("org_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, creds)
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.integration.Items(r.Context(), r.FormValue("user_id"), r.FormValue("org_id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := hubspot.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"detail": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}
