// Package server exposes the comparison engine over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/rent-vs-buy/internal/comparison"
	"github.com/iwvelando/rent-vs-buy/internal/config"
	"github.com/iwvelando/rent-vs-buy/internal/scenario"
	"github.com/iwvelando/rent-vs-buy/pkg/constants"
	"github.com/iwvelando/rent-vs-buy/pkg/output"
	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "requestID"

type handler struct {
	logger        *zap.Logger
	engine        *comparison.Engine
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the comparison API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		engine:        comparison.NewEngine(logger),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
	}

	router := mux.NewRouter()
	router.Use(requestIDMiddleware)
	router.Use(h.accessLogMiddleware)

	// Routes stay on the root router so a wrong method yields 405 rather than 404.
	router.HandleFunc("/api/compare", h.handleCompare).Methods(http.MethodPost)
	router.HandleFunc("/api/compare/config", h.handleCompareConfig).Methods(http.MethodPost)
	router.HandleFunc("/api/compare/export", h.handleCompareExport).Methods(http.MethodPost)
	router.HandleFunc("/api/defaults", h.handleDefaults).Methods(http.MethodGet)
	router.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)
	router.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)

	return router
}

// NewServer wraps handler in an http.Server using the configured address and timeouts.
func NewServer(cfg *Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadTimeoutDuration(),
		ReadTimeout:       cfg.ReadTimeoutDuration(),
		WriteTimeout:      cfg.WriteTimeoutDuration(),
	}
}

type compareResponse struct {
	RequestID         string            `json:"requestId"`
	Inputs            comparison.Inputs `json:"inputs"`
	Result            comparison.Result `json:"result"`
	Cheaper           string            `json:"cheaper"`
	Difference        float64           `json:"difference"`
	NetBuyingPosition float64           `json:"netBuyingPosition"`
	Duration          string            `json:"duration"`
}

type scenarioResponse struct {
	Name              string            `json:"name"`
	Inputs            comparison.Inputs `json:"inputs"`
	Result            comparison.Result `json:"result"`
	Cheaper           string            `json:"cheaper"`
	Difference        float64           `json:"difference"`
	NetBuyingPosition float64           `json:"netBuyingPosition"`
}

type configResponse struct {
	RequestID string             `json:"requestId"`
	Scenarios []scenarioResponse `json:"scenarios"`
	CSV       string             `json:"csv"`
	Warnings  []string           `json:"warnings,omitempty"`
	Duration  string             `json:"duration"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	// Fields left out of the request keep their defaults.
	inputs := comparison.DefaultInputs()
	if err := decodeJSONBody(r.Body, &inputs); err != nil {
		h.respondDecodeError(w, r, err, "inputs", op)
		return
	}

	result, err := h.engine.Compute(inputs)
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("years", inputs.Years),
		zap.String("cheaper", result.Cheaper()),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, compareResponse{
		RequestID:         RequestID(r.Context()),
		Inputs:            inputs,
		Result:            result,
		Cheaper:           result.Cheaper(),
		Difference:        result.Difference(),
		NetBuyingPosition: result.NetBuyingPosition(),
		Duration:          elapsed.String(),
	})
}

func (h *handler) handleCompareConfig(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompareConfig"
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	conf, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := conf.ValidateConfiguration()
	outcomes, err := scenario.Run(h.logger, *conf)
	if err != nil {
		h.respondError(w, r, statusForError(err), err.Error(), op)
		return
	}

	csvData, err := output.CsvString(outcomes)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to render CSV: %v", err), op)
		return
	}

	scenarios := make([]scenarioResponse, 0, len(outcomes))
	for _, outcome := range outcomes {
		scenarios = append(scenarios, scenarioResponse{
			Name:              outcome.Name,
			Inputs:            outcome.Inputs,
			Result:            outcome.Result,
			Cheaper:           outcome.Result.Cheaper(),
			Difference:        outcome.Result.Difference(),
			NetBuyingPosition: outcome.Result.NetBuyingPosition(),
		})
	}

	elapsed := time.Since(start)
	h.logger.Info("scenarios compared",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("scenarios", len(scenarios)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, configResponse{
		RequestID: RequestID(r.Context()),
		Scenarios: scenarios,
		CSV:       csvData,
		Warnings:  warnings,
		Duration:  elapsed.String(),
	})
}

type exportRequest struct {
	Common    *comparison.Inputs   `json:"common"`
	Scenarios []config.Scenario    `json:"scenarios"`
	Logging   config.LoggingConfig `json:"logging"`
	Output    config.OutputConfig  `json:"output"`
}

// handleCompareExport turns a JSON configuration into the YAML document the
// compare command and /api/compare/config accept.
func (h *handler) handleCompareExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompareExport"
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req exportRequest
	if err := decodeJSONBody(r.Body, &req); err != nil {
		h.respondDecodeError(w, r, err, "configuration", op)
		return
	}

	conf := config.Configuration{
		Common:    comparison.DefaultInputs(),
		Scenarios: req.Scenarios,
		Logging:   req.Logging,
		Output:    req.Output,
	}
	if req.Common != nil {
		conf.Common = *req.Common
	}

	for _, sc := range conf.Scenarios {
		if err := comparison.Validate(conf.Inputs(sc)); err != nil {
			h.respondError(w, r, statusForError(err), fmt.Sprintf("scenario %s: %v", sc.Name, err), op)
			return
		}
	}
	if len(conf.Scenarios) == 0 {
		if err := comparison.Validate(conf.Common); err != nil {
			h.respondError(w, r, statusForError(err), err.Error(), op)
			return
		}
	}

	yamlBytes, err := config.ExportYAML(conf)
	if err != nil {
		h.respondError(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	h.logger.Debug("configuration exported",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("scenarios", len(conf.Scenarios)),
	)

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleDefaults(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, comparison.DefaultInputs())
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSONBody decodes exactly one JSON value into dst. An empty body leaves
// dst untouched.
func decodeJSONBody(body io.Reader, dst interface{}) error {
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	err := decoder.Decode(&struct{}{})
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		return errTrailingData
	default:
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return fmt.Errorf("%w: %v", errTrailingData, err)
	}
}

func (h *handler) respondDecodeError(w http.ResponseWriter, r *http.Request, err error, what, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		return
	}
	h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode %s: %v", what, err), op)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, comparison.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, comparison.ErrDegenerateComputation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("comparison request failed",
		zap.String("op", op),
		zap.String("request_id", RequestID(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// RequestID returns the request identifier stored by the middleware, if any.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// requestIDMiddleware keeps a caller-supplied UUID request ID or assigns a new one.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(constants.RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(constants.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (h *handler) accessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		h.logger.Debug("request served",
			zap.String("op", "server.accessLog"),
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
