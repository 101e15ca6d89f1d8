package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/pagepicks/lines-api/internal/logic"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestIDHeader is echoed back on every response
const RequestIDHeader = "X-Request-ID"

var requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "lines_http_request_duration_seconds",
	Help:    "Duration of HTTP requests by route and status",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route", "status"})

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := make(map[string]bool, len(h.checks))
	allHealthy := true
	for name, check := range h.checks {
		err := check(ctx)
		checks[name] = err == nil
		if err != nil {
			allHealthy = false
			h.logger.Warnw("Readiness check failed", "dependency", name, "error", err)
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}
	h.jsonResponse(w, status, map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

// RequestLogger assigns a request ID, logs each request and records its duration
func (h *Handler) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(RequestIDHeader)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))
		elapsed := time.Since(start)

		route := r.URL.Path
		if rctx := chi.RouteContext(ctx); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestDuration.WithLabelValues(r.Method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		h.logger.Infow("Request",
			"request_id", reqID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
		)
	})
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// statusFor maps engine errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, logic.ErrInvalidStatSelector), errors.Is(err, logic.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrDataSourceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// serviceError logs err and writes the mapped status. Internal details of
// data source failures are not echoed to clients.
func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Errorw(msg, "request_id", requestID(r.Context()), "error", err)
	} else {
		h.logger.Infow(msg, "request_id", requestID(r.Context()), "error", err)
	}

	switch status {
	case http.StatusServiceUnavailable:
		h.errorResponse(w, status, logic.ErrDataSourceUnavailable.Error())
	case http.StatusInternalServerError:
		h.errorResponse(w, status, "internal error")
	default:
		h.errorResponse(w, status, err.Error())
	}
}
