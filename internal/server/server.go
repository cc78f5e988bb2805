// Package server exposes the analysis over HTTP, mirroring the CLI:
// expiry listing and a full report per ticker and expiry.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"optionscope/internal/analysis/engine"
	"optionscope/internal/data"
	"optionscope/internal/errors"
	"optionscope/internal/logging"
	"optionscope/internal/report"
)

// Server serves analysis reports over HTTP.
type Server struct {
	provider data.Provider
	engine   *engine.Engine
	logger   zerolog.Logger
	router   *mux.Router
}

// New creates a report server.
func New(provider data.Provider, eng *engine.Engine, logger zerolog.Logger) *Server {
	s := &Server{
		provider: provider,
		engine:   eng,
		logger:   logger,
		router:   mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/expiries", s.handleExpiries).Methods(http.MethodGet)
	s.router.HandleFunc("/api/report", s.handleReport).Methods(http.MethodGet)
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe starts the server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExpiries(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.URL.Query().Get("ticker"))
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	expiries, err := s.provider.GetExpiryDates(r.Context(), ticker)
	if err != nil {
		l := logging.WithSymbol(s.logger, ticker)
		l.Warn().Err(err).Msg("Expiry lookup failed")
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	dates := make([]string, len(expiries))
	for i, e := range expiries {
		dates[i] = e.Format("2006-01-02")
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":   ticker,
		"expiries": dates,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.URL.Query().Get("ticker"))
	if ticker == "" {
		s.writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}

	var expiry time.Time
	if v := r.URL.Query().Get("expiry"); v != "" {
		var err error
		expiry, err = time.Parse("2006-01-02", v)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid expiry, use YYYY-MM-DD")
			return
		}
	}

	c, err := s.provider.GetOptionChain(r.Context(), ticker, expiry)
	if err != nil {
		l := logging.WithSymbol(s.logger, ticker)
		l.Warn().Err(err).Msg("Chain fetch failed")
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	spot := c.SpotPrice
	if v := r.URL.Query().Get("spot"); v != "" {
		spot, err = strconv.ParseFloat(v, 64)
		if err != nil || spot <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid spot price")
			return
		}
	}
	if spot <= 0 {
		s.writeError(w, http.StatusBadRequest, "no spot price available, pass ?spot=")
		return
	}

	result, err := s.engine.Analyze(c, spot)
	if err != nil {
		l := logging.WithSymbol(s.logger, ticker)
		l.Warn().Err(err).Msg("Analysis failed")
		s.writeError(w, statusFor(err), err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":   ticker,
		"expiry":   c.Expiry.Format("2006-01-02"),
		"spot":     spot,
		"label":    result.Label,
		"snapshot": result.Snapshot,
		"report":   report.Build(ticker, c.Expiry, spot, result),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errors.ErrEmptyChain),
		errors.Is(err, errors.ErrNoExpiries),
		errors.Is(err, errors.ErrDataNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error().Err(err).Msg("Response encoding failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
