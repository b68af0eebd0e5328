// Package server exposes the analysis engine over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/moznion/go-optional"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rxtech-lab/argo-insight/internal/analysis"
	"github.com/rxtech-lab/argo-insight/internal/logger"
	"github.com/rxtech-lab/argo-insight/internal/types"
	"github.com/rxtech-lab/argo-insight/internal/version"
	"github.com/rxtech-lab/argo-insight/pkg/errors"
	"go.uber.org/zap"
)

const (
	defaultForecastDays = 5
	// maxBodyBytes bounds an analyze request; ten years of daily bars fit comfortably.
	maxBodyBytes = 8 << 20
	shutdownWait = 5 * time.Second
)

// BarPayload is one bar of an analyze request. Date accepts YYYY-MM-DD or RFC 3339.
type BarPayload struct {
	Date             string   `json:"date"`
	Open             float64  `json:"open"`
	High             float64  `json:"high"`
	Low              float64  `json:"low"`
	Close            float64  `json:"close"`
	Volume           float64  `json:"volume"`
	TradedValue      *float64 `json:"traded_value,omitempty"`
	TransactionCount *float64 `json:"transaction_count,omitempty"`
	Change           *float64 `json:"change,omitempty"`
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	Symbol       string       `json:"symbol"`
	Bars         []BarPayload `json:"bars"`
	ForecastDays int          `json:"forecast_days"`
	// IncludeFrame adds every indicator column to the response.
	IncludeFrame bool `json:"include_frame"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code  errors.ErrorCode `json:"code"`
	Error string           `json:"error"`
}

// Server routes HTTP requests to an analysis engine.
type Server struct {
	engine   *analysis.Engine
	logger   *logger.Logger
	metrics  *Metrics
	registry *prometheus.Registry
	router   *mux.Router
}

// NewServer creates a server with its own metrics registry.
func NewServer(engine *analysis.Engine, log *logger.Logger) *Server {
	registry := prometheus.NewRegistry()

	s := &Server{
		engine:   engine,
		logger:   log,
		metrics:  NewMetrics(registry),
		registry: registry,
		router:   mux.NewRouter(),
	}

	s.router.HandleFunc("/v1/analyze", s.handleAnalyze).Methods("POST")
	s.router.HandleFunc("/v1/healthz", s.handleHealthz).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on address until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, address string) error {
	httpServer := &http.Server{
		Addr:              address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", address))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrapf(errors.ErrCodeUnknown, err, "failed to serve on %s", address)
		}

		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")

	return httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.GetVersion()})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&req); err != nil {
		s.reject(w, errors.Wrap(errors.ErrCodeMalformedInput, "invalid request body", err))

		return
	}

	if strings.TrimSpace(req.Symbol) == "" {
		s.reject(w, errors.New(errors.ErrCodeMissingParameter, "symbol is required"))

		return
	}

	bars, err := toBars(req.Bars)
	if err != nil {
		s.reject(w, err)

		return
	}

	if req.ForecastDays == 0 {
		req.ForecastDays = defaultForecastDays
	}

	started := time.Now()
	report, err := s.engine.AnalyzeBars(req.Symbol, bars, analysis.Options{
		ForecastDays: req.ForecastDays,
		IncludeFrame: req.IncludeFrame,
	})
	s.metrics.AnalysisDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		if errors.IsValidation(err) {
			s.reject(w, err)

			return
		}

		s.metrics.Analyses.WithLabelValues(outcomeFailed).Inc()
		s.logger.Error("Analysis failed", zap.String("symbol", req.Symbol), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, err)

		return
	}

	s.metrics.BarsAnalyzed.Add(float64(report.Bars))

	outcome := outcomeOK
	if !report.HasForecast() {
		outcome = outcomeInsufficient
	}

	s.metrics.Analyses.WithLabelValues(outcome).Inc()
	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) reject(w http.ResponseWriter, err error) {
	s.metrics.Analyses.WithLabelValues(outcomeRejected).Inc()
	s.logger.Debug("Rejected analyze request", zap.Error(err))
	s.writeError(w, http.StatusBadRequest, err)
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, ErrorResponse{Code: errors.GetCode(err), Error: err.Error()})
}

// writeJSON encodes body before sending the header, so an unencodable body
// becomes a 500 instead of an empty success.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))

		status = http.StatusInternalServerError
		data, _ = json.Marshal(ErrorResponse{
			Code:  errors.ErrCodeUnknown,
			Error: "failed to encode response: " + err.Error(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if _, err := w.Write(append(data, '\n')); err != nil {
		s.logger.Warn("Failed to write response", zap.Error(err))
	}
}

func toBars(payload []BarPayload) ([]types.Bar, error) {
	bars := make([]types.Bar, len(payload))

	for i, p := range payload {
		date, err := parseDate(p.Date)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMalformedInput, err, "invalid date %q at index %d", p.Date, i)
		}

		bars[i] = types.Bar{
			Date:             date,
			Open:             p.Open,
			High:             p.High,
			Low:              p.Low,
			Close:            p.Close,
			Volume:           p.Volume,
			TradedValue:      fromPointer(p.TradedValue),
			TransactionCount: fromPointer(p.TransactionCount),
			Change:           fromPointer(p.Change),
		}
	}

	return bars, nil
}

func parseDate(s string) (time.Time, error) {
	if date, err := time.Parse(time.DateOnly, s); err == nil {
		return date, nil
	}

	return time.Parse(time.RFC3339, s)
}

func fromPointer(v *float64) optional.Option[float64] {
	if v == nil {
		return optional.None[float64]()
	}

	return optional.Some(*v)
}
