package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/export"
	"shareit/internal/models"
	"shareit/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sharerHeader carries the opaque numeric identity of the caller. There is
// no authentication behind it; upstream infrastructure is trusted.
const sharerHeader = "X-Sharer-User-Id"

// HTTPServer exposes the booking, item, user and request operations over
// a JSON HTTP API.
type HTTPServer struct {
	cfg      config.APIConfig
	bookings *service.BookingService
	items    *service.ItemService
	users    *service.UserService
	requests *service.RequestService
	reporter *export.Reporter
	limiter  *rateLimiter
	logger   *zerolog.Logger
	server   *http.Server
}

func NewHTTPServer(
	cfg config.APIConfig,
	bookings *service.BookingService,
	items *service.ItemService,
	users *service.UserService,
	requests *service.RequestService,
	reporter *export.Reporter,
	cache domain.ViewCache,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		items:    items,
		users:    users,
		requests: requests,
		reporter: reporter,
		limiter:  newRateLimiter(&cfg, cache),
		logger:   logger,
	}

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

// Handler builds the routing table with the middleware chain applied.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/bookings", s.handleBookings)
	mux.HandleFunc("/bookings/owner", s.handleOwnerBookings)
	mux.HandleFunc("/bookings/", s.handleBookingByID)
	mux.HandleFunc("/items", s.handleItems)
	mux.HandleFunc("/items/search", s.handleItemsSearch)
	mux.HandleFunc("/items/", s.handleItemByID)
	mux.HandleFunc("/users", s.handleUsers)
	mux.HandleFunc("/users/", s.handleUserByID)
	mux.HandleFunc("/requests", s.handleRequests)
	mux.HandleFunc("/requests/all", s.handleOtherRequests)
	mux.HandleFunc("/requests/", s.handleRequestByID)
	mux.HandleFunc("/admin/bookings/export", s.handleExport)
	mux.HandleFunc("/health", s.handleHealth)

	return s.requestID(s.logging(s.rateLimit(mux)))
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.reporter == nil {
		writeError(w, http.StatusServiceUnavailable, "export is disabled")
		return
	}

	bookings, err := s.bookings.ExportAll(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	filePath, err := s.reporter.WriteBookingsReport(bookings)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to write report")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"file": filePath, "bookings": len(bookings)})
}

type contextKey int

const requestIDKey contextKey = iota

// requestIDFrom returns the id the middleware stored on the context, or
// "" when the request never passed through it.
func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestID tags every request with an id for log correlation. The id is
// echoed on the response and carried in the request context so handlers
// can attach it to their own logs.
func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *HTTPServer) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", requestIDFrom(r.Context())).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// callerID reads the sharer header. Every endpoint except user management
// and search requires it.
func callerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(sharerHeader))
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", sharerHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s header must be a positive integer", sharerHeader)
	}
	return id, nil
}

// pathID extracts the numeric id segment following prefix and returns the
// remainder of the path.
func pathID(path, prefix string) (int64, string, error) {
	rest := strings.TrimPrefix(path, prefix)
	seg := rest
	var tail string
	if idx := strings.Index(rest, "/"); idx >= 0 {
		seg = rest[:idx]
		tail = rest[idx:]
	}
	id, err := strconv.ParseInt(seg, 10, 64)
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("invalid id in path")
	}
	return id, tail, nil
}

// paging reads from/size query parameters with the conventional defaults.
func paging(r *http.Request) (int, int, error) {
	from := models.DefaultPageOffset
	size := models.DefaultPageSize

	if raw := r.URL.Query().Get("from"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("from must be an integer")
		}
		from = v
	}
	if raw := r.URL.Query().Get("size"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, fmt.Errorf("size must be an integer")
		}
		size = v
	}
	if from < 0 || size <= 0 {
		return 0, 0, fmt.Errorf("invalid pagination: from=%d size=%d", from, size)
	}
	return from, size, nil
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

// writeServiceError translates a service error kind into an HTTP status.
// An owner booking their own item is reported as not-found on purpose:
// the item simply does not exist as a bookable target for its owner.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrOwnerSelfBooking):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrIncorrectDateTime),
		errors.Is(err, service.ErrItemUnavailable),
		errors.Is(err, service.ErrUnsupportedState),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrInvalidPagination):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("internal error")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
