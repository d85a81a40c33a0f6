// Package timespechttp exposes the timespec value types over a small JSON
// API: clients submit human-authored period or timestamp text and get back
// the canonical spelling plus the decoded components.
package timespechttp

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/chronotext/chronotext/internal/observability"
	"github.com/chronotext/chronotext/internal/timespec"
)

const defaultSortBatchLimit = 1000

// Handler serves the normalization endpoints.
type Handler struct {
	logger         *slog.Logger
	metrics        *observability.Metrics
	validate       *validator.Validate
	sortBatchLimit int
}

// NewHandler constructs a Handler instance. A sortBatchLimit of zero falls
// back to the default.
func NewHandler(logger *slog.Logger, metrics *observability.Metrics, sortBatchLimit int) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if sortBatchLimit <= 0 {
		sortBatchLimit = defaultSortBatchLimit
	}
	return &Handler{
		logger:         logger,
		metrics:        metrics,
		validate:       validator.New(),
		sortBatchLimit: sortBatchLimit,
	}
}

type normalizePeriodRequest struct {
	Period string `json:"period" validate:"required"`
}

type periodResponse struct {
	Canonical     string `json:"canonical"`
	Seconds       uint64 `json:"seconds"`
	Nanoseconds   uint32 `json:"nanoseconds"`
	TimeoutMillis uint64 `json:"timeout_ms"`
}

type normalizeInstantRequest struct {
	Instant string `json:"instant" validate:"required"`
}

type instantResponse struct {
	Canonical     string `json:"canonical"`
	Unix          int64  `json:"unix"`
	OffsetMinutes int    `json:"offset_minutes"`
	LeapSecond    bool   `json:"leap_second"`
}

type sortInstantsRequest struct {
	Instants   []string `json:"instants" validate:"required,min=1,dive,required"`
	Descending bool     `json:"descending"`
}

type sortInstantsResponse struct {
	Instants []string `json:"instants"`
}

func (h *Handler) handleNormalizePeriod(w http.ResponseWriter, r *http.Request) {
	var req normalizePeriodRequest
	if !h.decode(w, r, &req) {
		return
	}

	period, err := timespec.ParsePeriod(req.Period)
	h.metrics.ObserveParse("period", err == nil)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, periodResponse{
		Canonical:     period.String(),
		Seconds:       period.Seconds(),
		Nanoseconds:   period.Nanoseconds(),
		TimeoutMillis: period.Timeout().Millis(),
	})
}

func (h *Handler) handleNormalizeInstant(w http.ResponseWriter, r *http.Request) {
	var req normalizeInstantRequest
	if !h.decode(w, r, &req) {
		return
	}

	instant, err := timespec.ParseInstant(req.Instant)
	h.metrics.ObserveParse("instant", err == nil)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.respondJSON(w, http.StatusOK, instantResponse{
		Canonical:     instant.String(),
		Unix:          instant.Unix(),
		OffsetMinutes: instant.OffsetMinutes(),
		LeapSecond:    instant.IsLeapSecond(),
	})
}

func (h *Handler) handleSortInstants(w http.ResponseWriter, r *http.Request) {
	var req sortInstantsRequest
	if !h.decode(w, r, &req) {
		return
	}
	if len(req.Instants) > h.sortBatchLimit {
		h.respondError(w, http.StatusBadRequest, "too many instants in one request")
		return
	}

	instants := make([]timespec.Instant, 0, len(req.Instants))
	for _, raw := range req.Instants {
		instant, err := timespec.ParseInstant(raw)
		h.metrics.ObserveParse("instant", err == nil)
		if err != nil {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		instants = append(instants, instant)
	}

	timespec.SortInstants(instants, req.Descending)

	out := make([]string, len(instants))
	for n, instant := range instants {
		out[n] = instant.String()
	}
	h.respondJSON(w, http.StatusOK, sortInstantsResponse{Instants: out})
}

// decode reads and validates a JSON request body. It writes the error
// response itself and reports whether the handler should continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		fields := make(map[string]string)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fieldErr := range verrs {
				fields[fieldErr.Field()] = fieldErr.Tag()
			}
		}
		h.respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return false
	}
	return true
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("encode response", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
