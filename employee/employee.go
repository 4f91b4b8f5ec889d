// Package employee implements the record operations of the employee service.
// Each operation composes the store adapter and returns a Result; no error
// escapes an operation unconverted.
package employee

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Attribute names of the employee record.
const (
	AttrEmployeeID      = "employeeId"
	AttrPersonalInfo    = "personalInfo"
	AttrPerformanceInfo = "performanceInfo"
	AttrSalary          = "salary"
	AttrIsActive        = "isActive"
)

// DefaultProjection is the attribute set returned by reads.
var DefaultProjection = []string{AttrEmployeeID, AttrPersonalInfo}

// newRecord holds the fields of a create request that are validated.
type newRecord struct {
	EmployeeID string `json:"employeeId" validate:"required,min=4"`
	Salary     string `json:"salary" validate:"min=6"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	return strings.Join(msgs, "; ")
}

// DecodeBody decodes a request body into a JSON object. An empty body yields
// an empty object.
func DecodeBody(body []byte) (map[string]any, error) {
	doc := map[string]any{}
	if len(bytes.TrimSpace(body)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	return doc, nil
}

// ActiveFlag extracts the requested isActive value from a soft-delete body.
// performanceInfo.isActive takes precedence over a top-level isActive. The
// value is returned untyped so the operation can reject non-booleans.
func ActiveFlag(body map[string]any) any {
	if info, ok := body[AttrPerformanceInfo].(map[string]any); ok {
		if v, ok := info[AttrIsActive]; ok {
			return v
		}
	}
	return body[AttrIsActive]
}

// textOf returns the textual form of a scalar JSON value, or "" for other types.
func textOf(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
