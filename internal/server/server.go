package server

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/mortgage-calculator/internal/calculator"
	"github.com/iwvelando/mortgage-calculator/internal/config"
	"github.com/iwvelando/mortgage-calculator/internal/form"
	"github.com/iwvelando/mortgage-calculator/pkg/constants"
	"github.com/iwvelando/mortgage-calculator/pkg/mortgage"
	"github.com/iwvelando/mortgage-calculator/pkg/output"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// HandlerOptions configures NewHandler. Zero values disable the cache and
// rate limiting and fall back to the default upload size.
type HandlerOptions struct {
	MaxUploadSize int64
	Version       string
	Cache         Cache
	RateLimiter   *RateLimiter
}

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	cache         Cache
}

// NewHandler constructs the HTTP handler that serves the web form and calculation API.
func NewHandler(logger *zap.Logger, opts HandlerOptions) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		cache:         opts.Cache,
	}

	api := func(fn http.HandlerFunc) http.Handler {
		if opts.RateLimiter == nil {
			return fn
		}
		return RateLimitMiddleware(opts.RateLimiter, logger, fn)
	}

	mux := http.NewServeMux()

	// Single calculation from the raw form fields
	mux.Handle("/api/calculate", api(h.handleCalculate))

	// Batch calculation from an uploaded scenario file
	mux.Handle("/api/scenarios", api(h.handleScenarios))

	// Form defaults for "Clear All"
	mux.Handle("/api/form/reset", api(h.handleFormReset))

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	mux.Handle("/", http.FileServer(http.FS(sub)))

	return RequestIDMiddleware(logger, mux)
}

type calculateResponse struct {
	Result   output.Summary `json:"result"`
	Cached   bool           `json:"cached"`
	Duration string         `json:"duration"`
}

type validationResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors"`
}

type scenariosResponse struct {
	Scenarios []output.Summary `json:"scenarios"`
	CSV       string           `json:"csv"`
	Warnings  []string         `json:"warnings,omitempty"`
	Duration  string           `json:"duration"`
}

type formResponse struct {
	Fields []string          `json:"fields"`
	Values map[string]string `json:"values"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	payload, ok := h.decodeObject(w, r, op)
	if !ok {
		return
	}

	raw := make(map[string]string, len(payload))
	for key, value := range payload {
		raw[key] = coerceString(value)
	}

	result := form.FromValues(raw).Validate()
	if !result.Valid() {
		h.logger.Info("calculation rejected",
			zap.String("op", op),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Any("errors", result.Errors),
		)
		h.writeJSON(w, http.StatusBadRequest, validationResponse{
			Error:  "invalid form input",
			Errors: result.Errors,
		})
		return
	}

	calc, cached, err := h.calculate(r.Context(), result.Type, result.Input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, mortgage.ErrInvalidInput) || errors.Is(err, mortgage.ErrUnknownRepaymentType) {
			status = http.StatusBadRequest
		}
		h.respondError(w, r, status, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	summary := output.Summarize(calculator.Result{
		TermYears:    result.TermYears,
		InterestRate: result.InterestRate,
		Calculation:  calc,
	})

	h.logger.Info("calculation computed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.String("type", string(calc.Type)),
		zap.Bool("cached", cached),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, calculateResponse{
		Result:   summary,
		Cached:   cached,
		Duration: elapsed.String(),
	})
}

// calculate returns the cached calculation for the input when present,
// otherwise computes and stores it. Cache errors are logged and skipped.
func (h *handler) calculate(ctx context.Context, t mortgage.RepaymentType, in mortgage.MortgageInput) (mortgage.Calculation, bool, error) {
	const op = "server.calculate"
	if h.cache == nil {
		calc, err := mortgage.Calculate(t, in)
		return calc, false, err
	}

	key := cacheKey(t, in)
	if value, ok, err := h.cache.Get(ctx, key); err != nil {
		h.logger.Warn("cache lookup failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	} else if ok {
		var calc mortgage.Calculation
		err := json.Unmarshal([]byte(value), &calc)
		if err == nil {
			return calc, true, nil
		}
		h.logger.Warn("discarding unreadable cache entry",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}

	calc, err := mortgage.Calculate(t, in)
	if err != nil {
		return mortgage.Calculation{}, false, err
	}

	encoded, err := json.Marshal(calc)
	if err != nil {
		h.logger.Warn("failed to encode cache entry", zap.String("op", op), zap.Error(err))
		return calc, false, nil
	}
	if err := h.cache.Set(ctx, key, string(encoded)); err != nil {
		h.logger.Warn("cache store failed",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err),
		)
	}
	return calc, false, nil
}

func (h *handler) handleScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleScenarios"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

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
		h.respondError(w, r, http.StatusBadRequest, "missing scenario file", op)
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
		h.respondError(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read scenario file: %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(&buf)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := calculator.GetResults(h.logger, *cfg)
	if err != nil {
		h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to calculate scenarios: %v", err), op)
		return
	}

	elapsed := time.Since(start)
	response := scenariosResponse{
		Scenarios: output.SummarizeAll(results),
		CSV:       output.CsvString(results),
		Warnings:  warnings,
		Duration:  elapsed.String(),
	}

	h.logger.Info("scenarios computed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Int("scenarios", len(response.Scenarios)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// handleFormReset returns the form defaults on GET. On POST the body may
// carry field overrides to apply on top of the defaults.
func (h *handler) handleFormReset(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleFormReset"

	overrides := map[string]string{}
	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
		payload, ok := h.decodeObject(w, r, op)
		if !ok {
			return
		}
		for key, value := range payload {
			overrides[key] = coerceString(value)
		}
	default:
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var f form.Form
	if err := f.Reset(overrides); err != nil {
		h.respondError(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, formResponse{
		Fields: form.Fields(),
		Values: f.Values(),
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeObject reads a JSON object from the request body. On failure it
// writes the error response and returns false.
func (h *handler) decodeObject(w http.ResponseWriter, r *http.Request, op string) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			h.respondError(w, r, http.StatusBadRequest, "request body is empty", op)
		case errors.As(err, &maxBytesErr):
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		default:
			h.respondError(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		}
		return nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	return payload, true
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(h.logger, w, status, payload)
}

func writeJSON(logger *zap.Logger, w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// coerceString renders a decoded JSON value the way it would have been typed
// into the form, so numbers and strings validate identically.
func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}
