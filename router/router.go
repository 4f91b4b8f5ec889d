// Package router maps (route pattern, method) pairs onto employee operations
// and renders every outcome as the service's JSON response envelope.
package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/employee"
	"github.com/PavanGupta6/employee/internal/apperr"
)

// Route patterns served by the employee service.
const (
	PatternEmployee        = "/employee/{id}"
	PatternEmployees       = "/employees"
	PatternPerformanceInfo = "/performanceInfo/{id}"
	PatternSoftDelete      = "/softdel/performanceInfo/{id}"
)

// ParamID is the path parameter carrying the employeeId.
const ParamID = "id"

// Request is a transport-neutral inbound request.
type Request struct {
	// Resource is the matched route pattern, e.g. "/employee/{id}".
	Resource       string
	HTTPMethod     string
	PathParameters map[string]string
	Body           []byte
}

// Param returns the named path parameter or "".
func (r Request) Param(name string) string {
	if r.PathParameters == nil {
		return ""
	}
	return r.PathParameters[name]
}

// Response is the rendered reply.
type Response struct {
	StatusCode int
	Body       string
}

// Envelope is the JSON body of every response.
type Envelope struct {
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	ErrorMsg   string `json:"errorMsg,omitempty"`
	ErrorStack string `json:"errorStack,omitempty"`
}

// HandlerFunc runs one operation for a matched request.
type HandlerFunc func(ctx context.Context, req Request) employee.Result

// Route binds a pattern and method to a handler.
type Route struct {
	Pattern string
	Method  string
	Handler HandlerFunc
}

type routeKey struct {
	pattern string
	method  string
}

// ErrDuplicateRoute is returned by New when two routes share a pattern and method.
var ErrDuplicateRoute = errors.New("router: duplicate route")

// Dispatcher routes requests to operations.
type Dispatcher struct {
	routes map[routeKey]HandlerFunc
	order  []Route
	logger *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the dispatcher logger.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New builds a Dispatcher from routes. Methods are matched case-insensitively.
func New(routes []Route, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		routes: make(map[routeKey]HandlerFunc, len(routes)),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	for _, r := range routes {
		if r.Handler == nil {
			return nil, fmt.Errorf("router: route %s %s has no handler", r.Method, r.Pattern)
		}
		key := routeKey{pattern: r.Pattern, method: strings.ToUpper(r.Method)}
		if _, exists := d.routes[key]; exists {
			return nil, fmt.Errorf("%w: %s %s", ErrDuplicateRoute, key.method, key.pattern)
		}
		d.routes[key] = r.Handler
		d.order = append(d.order, Route{Pattern: r.Pattern, Method: key.method, Handler: r.Handler})
	}
	return d, nil
}

// MustNew is like New but panics on an invalid route table.
func MustNew(routes []Route, opts ...Option) *Dispatcher {
	d, err := New(routes, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Routes returns the registered routes in registration order.
func (d *Dispatcher) Routes() []Route {
	out := make([]Route, len(d.order))
	copy(out, d.order)
	return out
}

// Dispatch runs the operation matching req and renders its Result. Unknown
// routes yield 404; a panicking handler yields 500.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (resp Response) {
	handler, ok := d.routes[routeKey{pattern: req.Resource, method: strings.ToUpper(req.HTTPMethod)}]
	if !ok {
		d.logger.Info("route not found",
			zap.String("method", req.HTTPMethod),
			zap.String("resource", req.Resource),
		)
		msg := fmt.Sprintf("URL not found -  %s", req.Resource)
		return Render(employee.Result{
			StatusCode: http.StatusNotFound,
			Message:    msg,
			Err:        apperr.NotFound(msg),
		})
	}

	defer func() {
		if r := recover(); r != nil {
			err := apperr.Internal("handler panic", fmt.Errorf("%v", r))
			d.logger.Error("handler panicked",
				zap.String("method", req.HTTPMethod),
				zap.String("resource", req.Resource),
				zap.Any("panic", r),
			)
			resp = Render(employee.Result{
				StatusCode: http.StatusInternalServerError,
				Message:    "Internal server error.",
				Err:        err,
			})
		}
	}()

	result := handler(ctx, req)
	d.logger.Debug("request dispatched",
		zap.String("method", req.HTTPMethod),
		zap.String("resource", req.Resource),
		zap.Int("status", result.StatusCode),
	)
	return Render(result)
}

// Render converts a Result into a Response with the JSON envelope.
func Render(result employee.Result) Response {
	status := result.StatusCode
	if status == 0 {
		status = http.StatusOK
		if result.Err != nil {
			status = apperr.StatusCode(result.Err)
		}
	}

	env := Envelope{Message: result.Message, Data: result.Data}
	if result.Err != nil {
		env.ErrorMsg = apperr.Message(result.Err)
		env.ErrorStack = apperr.Stack(result.Err)
	}

	body, err := json.Marshal(env)
	if err != nil {
		body, _ = json.Marshal(Envelope{
			Message:  result.Message,
			ErrorMsg: fmt.Sprintf("encode response: %v", err),
		})
		status = http.StatusInternalServerError
	}
	return Response{StatusCode: status, Body: string(body)}
}
