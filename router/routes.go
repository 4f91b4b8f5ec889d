package router

import (
	"context"
	"net/http"

	"github.com/PavanGupta6/employee/employee"
)

// Operations is the set of employee operations the routes dispatch to.
// *employee.Service implements it.
type Operations interface {
	Get(ctx context.Context, id string) employee.Result
	List(ctx context.Context) employee.Result
	Create(ctx context.Context, id string, fields map[string]any) employee.Result
	Update(ctx context.Context, id string, fields map[string]any) employee.Result
	RemovePerformanceInfo(ctx context.Context, id string) employee.Result
	SetPerformanceInfoActive(ctx context.Context, id string, isActive any) employee.Result
}

var _ Operations = (*employee.Service)(nil)

// EmployeeRoutes returns the route table of the employee service.
func EmployeeRoutes(ops Operations) []Route {
	return []Route{
		{Pattern: PatternEmployee, Method: http.MethodGet, Handler: func(ctx context.Context, req Request) employee.Result {
			return ops.Get(ctx, req.Param(ParamID))
		}},
		{Pattern: PatternEmployees, Method: http.MethodGet, Handler: func(ctx context.Context, _ Request) employee.Result {
			return ops.List(ctx)
		}},
		{Pattern: PatternEmployee, Method: http.MethodPost, Handler: withBody("Failed to create employee.",
			func(ctx context.Context, req Request, body map[string]any) employee.Result {
				return ops.Create(ctx, req.Param(ParamID), body)
			})},
		{Pattern: PatternEmployee, Method: http.MethodPut, Handler: withBody("Failed to update employee details.",
			func(ctx context.Context, req Request, body map[string]any) employee.Result {
				return ops.Update(ctx, req.Param(ParamID), body)
			})},
		{Pattern: PatternPerformanceInfo, Method: http.MethodDelete, Handler: func(ctx context.Context, req Request) employee.Result {
			return ops.RemovePerformanceInfo(ctx, req.Param(ParamID))
		}},
		{Pattern: PatternSoftDelete, Method: http.MethodDelete, Handler: withBody("Failed to soft delete employee performance Information details.",
			func(ctx context.Context, req Request, body map[string]any) employee.Result {
				return ops.SetPerformanceInfoActive(ctx, req.Param(ParamID), employee.ActiveFlag(body))
			})},
	}
}

// withBody decodes the request body before calling next. A body that is not
// a JSON object is rejected with 400 and failMsg.
func withBody(failMsg string, next func(ctx context.Context, req Request, body map[string]any) employee.Result) HandlerFunc {
	return func(ctx context.Context, req Request) employee.Result {
		body, err := employee.DecodeBody(req.Body)
		if err != nil {
			return employee.Invalid(failMsg, err)
		}
		return next(ctx, req, body)
	}
}
