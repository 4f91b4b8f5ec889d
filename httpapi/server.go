// Package httpapi serves the employee routes over plain HTTP for local
// development, mirroring the API Gateway resources.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/employee"
	"github.com/PavanGupta6/employee/router"
)

// HeaderRequestID carries the request id in both directions.
const HeaderRequestID = "X-Request-ID"

// maxBodyBytes matches the API Gateway payload limit.
const maxBodyBytes = 10 << 20

// Options configures the HTTP handler.
type Options struct {
	Logger *zap.Logger
	// Metrics enables request metrics and the /metrics endpoint when set.
	Metrics *Metrics
	// AllowedOrigins for CORS. Empty disables the CORS middleware.
	AllowedOrigins []string
}

// server adapts net/http requests to the dispatcher.
type server struct {
	dispatcher *router.Dispatcher
	logger     *zap.Logger
	metrics    *Metrics
}

// NewHandler builds the chi router for d. Every dispatcher pattern is
// mounted for all methods so that method mismatches and unknown paths get the
// dispatcher's not-found envelope.
func NewHandler(d *router.Dispatcher, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{dispatcher: d, logger: logger, metrics: opts.Metrics}

	r := chi.NewRouter()
	r.Use(requestID)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", HeaderRequestID},
			ExposedHeaders: []string{HeaderRequestID},
			MaxAge:         300,
		}))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	mounted := map[string]bool{}
	for _, route := range d.Routes() {
		if mounted[route.Pattern] {
			continue
		}
		mounted[route.Pattern] = true
		r.HandleFunc(route.Pattern, s.serve)
	}
	r.NotFound(s.serve)

	return r
}

func (s *server) serve(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := router.Request{
		Resource:       r.URL.Path,
		HTTPMethod:     r.Method,
		PathParameters: map[string]string{},
	}
	route := "unmatched"
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" && pattern != "/*" {
			req.Resource = pattern
			route = pattern
		}
		for i, key := range rctx.URLParams.Keys {
			if key != "*" {
				req.PathParameters[key] = rctx.URLParams.Values[i]
			}
		}
	}

	var resp router.Response
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		resp = router.Render(employee.Invalid("Invalid request body.", err))
	} else {
		req.Body = body
		resp = s.dispatcher.Dispatch(r.Context(), req)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if _, err := io.WriteString(w, resp.Body); err != nil {
		s.logger.Warn("failed to write response", zap.Error(err))
	}

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.observe(r.Method, route, resp.StatusCode, elapsed)
	}
	s.logger.Info("request handled",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed),
		zap.String("requestID", RequestIDFrom(r.Context())),
	)
}

type requestIDKey struct{}

// requestID propagates the caller's X-Request-ID or assigns a new UUID.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestIDFrom returns the request id stored by the middleware, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
