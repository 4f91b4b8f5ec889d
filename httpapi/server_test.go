package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PavanGupta6/employee/employee"
	"github.com/PavanGupta6/employee/httpapi"
	"github.com/PavanGupta6/employee/router"
)

type recorded struct {
	op   string
	id   string
	body map[string]any
}

// newTestServer mounts echo handlers for every employee route.
func newTestServer(t *testing.T, metrics *httpapi.Metrics) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}

	handler := func(op string) router.HandlerFunc {
		return func(_ context.Context, req router.Request) employee.Result {
			body, err := employee.DecodeBody(req.Body)
			if err != nil {
				return employee.Invalid("bad body", err)
			}
			rec.op, rec.id, rec.body = op, req.Param(router.ParamID), body
			return employee.Result{StatusCode: http.StatusOK, Message: op, Data: map[string]any{"resource": req.Resource}}
		}
	}

	d, err := router.New([]router.Route{
		{Pattern: router.PatternEmployee, Method: http.MethodGet, Handler: handler("get")},
		{Pattern: router.PatternEmployee, Method: http.MethodPost, Handler: handler("create")},
		{Pattern: router.PatternEmployees, Method: http.MethodGet, Handler: handler("list")},
		{Pattern: router.PatternSoftDelete, Method: http.MethodDelete, Handler: handler("softdel")},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(httpapi.NewHandler(d, httpapi.Options{
		Metrics:        metrics,
		AllowedOrigins: []string{"*"},
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func do(t *testing.T, method, url, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env map[string]any
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp, env
}

func TestServer_RoutesWithPathParameter(t *testing.T) {
	srv, rec := newTestServer(t, nil)

	resp, env := do(t, http.MethodGet, srv.URL+"/employee/1001", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "get", rec.op)
	assert.Equal(t, "1001", rec.id)
	assert.Equal(t, map[string]any{"resource": "/employee/{id}"}, env["data"])
}

func TestServer_ForwardsBody(t *testing.T) {
	srv, rec := newTestServer(t, nil)

	resp, _ := do(t, http.MethodDelete, srv.URL+"/softdel/performanceInfo/1006", `{"performanceInfo":{"isActive":false}}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "softdel", rec.op)
	assert.Equal(t, "1006", rec.id)
	assert.Equal(t, map[string]any{"performanceInfo": map[string]any{"isActive": false}}, rec.body)
}

func TestServer_UnknownPath(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, env := do(t, http.MethodGet, srv.URL+"/foo", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "URL not found -  /foo", env["message"])
}

func TestServer_UnknownMethod(t *testing.T) {
	srv, rec := newTestServer(t, nil)

	resp, env := do(t, http.MethodPut, srv.URL+"/employees", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "URL not found -  /employees", env["message"])
	assert.Empty(t, rec.op)
}

func TestServer_RequestID(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, _ := do(t, http.MethodGet, srv.URL+"/employees", "")
	assert.NotEmpty(t, resp.Header.Get(httpapi.HeaderRequestID))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/employees", nil)
	require.NoError(t, err)
	req.Header.Set(httpapi.HeaderRequestID, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "abc-123", resp.Header.Get(httpapi.HeaderRequestID))
}

func TestServer_Metrics(t *testing.T) {
	metrics := httpapi.NewMetrics("employee")
	srv, _ := newTestServer(t, metrics)

	do(t, http.MethodGet, srv.URL+"/employees", "")
	do(t, http.MethodGet, srv.URL+"/employee/1001", "")

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `employee_http_requests_total{method="GET",route="/employees",status="200"} 1`)
	assert.Contains(t, string(raw), `route="/employee/{id}"`)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequestIDFrom_Empty(t *testing.T) {
	assert.Equal(t, "", httpapi.RequestIDFrom(context.Background()))
}
