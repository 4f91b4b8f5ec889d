package router_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/PavanGupta6/employee/employee"
	"github.com/PavanGupta6/employee/internal/apperr"
	"github.com/PavanGupta6/employee/internal/storetest"
	"github.com/PavanGupta6/employee/router"
	"github.com/PavanGupta6/employee/store"
)

// fakeOps records the operation invoked and returns a canned Result.
type fakeOps struct {
	called string
	id     string
	fields map[string]any
	active any
	result employee.Result
}

func (f *fakeOps) Get(_ context.Context, id string) employee.Result {
	f.called, f.id = "Get", id
	return f.result
}

func (f *fakeOps) List(context.Context) employee.Result {
	f.called = "List"
	return f.result
}

func (f *fakeOps) Create(_ context.Context, id string, fields map[string]any) employee.Result {
	f.called, f.id, f.fields = "Create", id, fields
	return f.result
}

func (f *fakeOps) Update(_ context.Context, id string, fields map[string]any) employee.Result {
	f.called, f.id, f.fields = "Update", id, fields
	return f.result
}

func (f *fakeOps) RemovePerformanceInfo(_ context.Context, id string) employee.Result {
	f.called, f.id = "RemovePerformanceInfo", id
	return f.result
}

func (f *fakeOps) SetPerformanceInfoActive(_ context.Context, id string, isActive any) employee.Result {
	f.called, f.id, f.active = "SetPerformanceInfoActive", id, isActive
	return f.result
}

func newDispatcher(t *testing.T, ops router.Operations) *router.Dispatcher {
	t.Helper()
	d, err := router.New(router.EmployeeRoutes(ops))
	require.NoError(t, err)
	return d
}

func decode(t *testing.T, body string) map[string]any {
	t.Helper()
	var env map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	return env
}

func TestDispatch_RoutesToOperation(t *testing.T) {
	tests := []struct {
		name     string
		req      router.Request
		wantCall string
		wantID   string
	}{
		{"get", router.Request{Resource: "/employee/{id}", HTTPMethod: "GET", PathParameters: map[string]string{"id": "1001"}}, "Get", "1001"},
		{"list", router.Request{Resource: "/employees", HTTPMethod: "GET"}, "List", ""},
		{"create", router.Request{Resource: "/employee/{id}", HTTPMethod: "POST", PathParameters: map[string]string{"id": "1001"}, Body: []byte(`{"salary":"120000"}`)}, "Create", "1001"},
		{"update", router.Request{Resource: "/employee/{id}", HTTPMethod: "PUT", PathParameters: map[string]string{"id": "1002"}, Body: []byte(`{"a":1}`)}, "Update", "1002"},
		{"remove", router.Request{Resource: "/performanceInfo/{id}", HTTPMethod: "DELETE", PathParameters: map[string]string{"id": "1006"}}, "RemovePerformanceInfo", "1006"},
		{"soft delete", router.Request{Resource: "/softdel/performanceInfo/{id}", HTTPMethod: "DELETE", PathParameters: map[string]string{"id": "1007"}, Body: []byte(`{"performanceInfo":{"isActive":false}}`)}, "SetPerformanceInfoActive", "1007"},
		{"lowercase method", router.Request{Resource: "/employees", HTTPMethod: "get"}, "List", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := &fakeOps{result: employee.Result{StatusCode: http.StatusOK, Message: "ok"}}
			resp := newDispatcher(t, ops).Dispatch(context.Background(), tt.req)

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantCall, ops.called)
			assert.Equal(t, tt.wantID, ops.id)
		})
	}
}

func TestDispatch_PassesBodyFields(t *testing.T) {
	ops := &fakeOps{result: employee.Result{StatusCode: http.StatusOK}}
	d := newDispatcher(t, ops)

	d.Dispatch(context.Background(), router.Request{
		Resource:       "/employee/{id}",
		HTTPMethod:     "PUT",
		PathParameters: map[string]string{"id": "1002"},
		Body:           []byte(`{"a":1,"b":"x"}`),
	})
	assert.Equal(t, map[string]any{"a": float64(1), "b": "x"}, ops.fields)

	d.Dispatch(context.Background(), router.Request{
		Resource:       "/softdel/performanceInfo/{id}",
		HTTPMethod:     "DELETE",
		PathParameters: map[string]string{"id": "1007"},
		Body:           []byte(`{"performanceInfo":{"isActive":true}}`),
	})
	assert.Equal(t, true, ops.active)
}

func TestDispatch_UnknownRoute(t *testing.T) {
	ops := &fakeOps{}
	d := newDispatcher(t, ops)

	resp := d.Dispatch(context.Background(), router.Request{Resource: "/foo", HTTPMethod: "GET"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "URL not found -  /foo", decode(t, resp.Body)["message"])
	assert.Empty(t, ops.called)

	resp = d.Dispatch(context.Background(), router.Request{Resource: "/employees", HTTPMethod: "DELETE"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Empty(t, ops.called)
}

func TestDispatch_MalformedBody(t *testing.T) {
	ops := &fakeOps{}
	d := newDispatcher(t, ops)

	resp := d.Dispatch(context.Background(), router.Request{
		Resource:       "/employee/{id}",
		HTTPMethod:     "POST",
		PathParameters: map[string]string{"id": "1001"},
		Body:           []byte(`{"salary":`),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Failed to create employee.", decode(t, resp.Body)["message"])
	assert.Empty(t, ops.called)
}

func TestDispatch_RecoversPanic(t *testing.T) {
	d, err := router.New([]router.Route{{
		Pattern: "/boom",
		Method:  "GET",
		Handler: func(context.Context, router.Request) employee.Result { panic("kaboom") },
	}})
	require.NoError(t, err)

	resp := d.Dispatch(context.Background(), router.Request{Resource: "/boom", HTTPMethod: "GET"})
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	env := decode(t, resp.Body)
	assert.Equal(t, "kaboom", env["errorMsg"])
	assert.NotEmpty(t, env["errorStack"])
}

func TestNew_RejectsDuplicates(t *testing.T) {
	h := func(context.Context, router.Request) employee.Result { return employee.Result{} }

	_, err := router.New([]router.Route{
		{Pattern: "/employees", Method: "GET", Handler: h},
		{Pattern: "/employees", Method: "get", Handler: h},
	})
	assert.ErrorIs(t, err, router.ErrDuplicateRoute)

	_, err = router.New([]router.Route{{Pattern: "/employees", Method: "GET"}})
	assert.Error(t, err)
}

func TestEmployeeRoutes_Table(t *testing.T) {
	d := newDispatcher(t, &fakeOps{})

	var got []string
	for _, r := range d.Routes() {
		got = append(got, r.Method+" "+r.Pattern)
	}
	assert.ElementsMatch(t, []string{
		"GET /employee/{id}",
		"GET /employees",
		"POST /employee/{id}",
		"PUT /employee/{id}",
		"DELETE /performanceInfo/{id}",
		"DELETE /softdel/performanceInfo/{id}",
	}, got)
}

func TestRender_Envelope(t *testing.T) {
	t.Run("success with data", func(t *testing.T) {
		resp := router.Render(employee.Result{
			StatusCode: http.StatusOK,
			Message:    "Successfully retrieved all employees.",
			Data:       []map[string]any{{"employeeId": "1233"}},
		})
		env := decode(t, resp.Body)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, env["data"], 1)
		assert.NotContains(t, env, "errorMsg")
		assert.NotContains(t, env, "errorStack")
	})

	t.Run("not found has no stack", func(t *testing.T) {
		resp := router.Render(employee.Result{
			StatusCode: http.StatusNotFound,
			Message:    "Employee details not found for employeeId : 10.",
			Err:        apperr.NotFound("Employee details not found for employeeId : 10."),
		})
		env := decode(t, resp.Body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.NotContains(t, env, "errorStack")
		assert.NotContains(t, env, "data")
	})

	t.Run("server failure carries cause and stack", func(t *testing.T) {
		resp := router.Render(employee.Result{
			StatusCode: http.StatusInternalServerError,
			Message:    "Failed to retrieve all employees.",
			Err:        apperr.StoreUnavailable("store unavailable", errors.New("Unexpected error occurred.")),
		})
		env := decode(t, resp.Body)
		assert.Equal(t, "Unexpected error occurred.", env["errorMsg"])
		assert.Contains(t, env["errorStack"], "Unexpected error occurred.")
	})

	t.Run("status derived from error", func(t *testing.T) {
		resp := router.Render(employee.Result{Err: apperr.Validation("bad")})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestDispatch_WithService(t *testing.T) {
	client := &storetest.Client{}
	svc := employee.NewService(store.New(client, store.DefaultConfig(), nil), nil)
	d := newDispatcher(t, svc)
	ctx := context.Background()

	client.On("GetItem", ctx, mock.Anything).Return(&dynamodb.GetItemOutput{
		Item: storetest.Marshal(map[string]any{"employeeId": "1001"}),
	}, nil)

	resp := d.Dispatch(ctx, router.Request{
		Resource:       "/employee/{id}",
		HTTPMethod:     "GET",
		PathParameters: map[string]string{"id": "1001"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decode(t, resp.Body)
	assert.Equal(t, "Successfully retrieved employee details of employeeId : 1001.", env["message"])
	assert.Equal(t, map[string]any{"employeeId": "1001"}, env["data"])

	resp = d.Dispatch(ctx, router.Request{
		Resource:       "/softdel/performanceInfo/{id}",
		HTTPMethod:     "DELETE",
		PathParameters: map[string]string{"id": "1006"},
		Body:           []byte(`{"performanceInfo":{"isActive":123}}`),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "isActive attribute should be of boolean type!", decode(t, resp.Body)["message"])
	client.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything)
}
