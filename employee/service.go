package employee

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/internal/apperr"
	"github.com/PavanGupta6/employee/store"
)

// Records is the store adapter used by the Service. *store.Store implements it.
type Records interface {
	Fetch(ctx context.Context, id string, projection ...string) (*store.Item, bool, error)
	List(ctx context.Context, projection ...string) ([]*store.Item, error)
	Put(ctx context.Context, record any) error
	Update(ctx context.Context, id string, update expression.UpdateBuilder, opts store.UpdateOptions) (*store.Item, error)
}

var _ Records = (*store.Store)(nil)

// Result is the outcome of an operation.
type Result struct {
	StatusCode int
	Message    string
	// Data is the record or record sequence for successful operations.
	Data any
	// Err is set on failure paths.
	Err error
}

func success(message string, data any) Result {
	return Result{StatusCode: http.StatusOK, Message: message, Data: data}
}

func failure(message string, err error) Result {
	return Result{StatusCode: apperr.StatusCode(err), Message: message, Err: err}
}

// Invalid reports a request that could not be turned into an operation call.
func Invalid(message string, err error) Result {
	return failure(message, apperr.Validation(err.Error()))
}

// Service implements the employee record operations.
type Service struct {
	records  Records
	logger   *zap.Logger
	validate *validator.Validate
}

// NewService creates a new Service.
func NewService(records Records, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		records:  records,
		logger:   logger,
		validate: newValidator(),
	}
}

// Get returns the record for id.
func (s *Service) Get(ctx context.Context, id string) Result {
	failMsg := fmt.Sprintf("Failed to get employee details with employeeId : %s.", id)
	if strings.TrimSpace(id) == "" {
		return failure(failMsg, apperr.Validation("employeeId is required"))
	}

	item, found, err := s.records.Fetch(ctx, id)
	if err != nil {
		return s.report("get", id, failMsg, err)
	}
	if !found {
		msg := fmt.Sprintf("Employee details not found for employeeId : %s.", id)
		return failure(msg, apperr.NotFound(msg))
	}

	doc, err := item.Map()
	if err != nil {
		return s.report("get", id, failMsg, apperr.Internal("unmarshal record", err))
	}
	return success(fmt.Sprintf("Successfully retrieved employee details of employeeId : %s.", id), doc)
}

// List returns every record in the table.
func (s *Service) List(ctx context.Context) Result {
	const failMsg = "Failed to retrieve all employees."

	items, err := s.records.List(ctx)
	if err != nil {
		return s.report("list", "", failMsg, err)
	}
	if len(items) == 0 {
		const msg = "Employees details are not found."
		return failure(msg, apperr.NotFound(msg))
	}

	docs := make([]map[string]any, 0, len(items))
	for _, item := range items {
		doc, err := item.Map()
		if err != nil {
			return s.report("list", "", failMsg, apperr.Internal("unmarshal record", err))
		}
		docs = append(docs, doc)
	}
	return success("Successfully retrieved all employees.", docs)
}

// Create stores a new record. The employeeId comes from the body, or from id
// when the body has none. An existing record with the same key is replaced.
func (s *Service) Create(ctx context.Context, id string, fields map[string]any) Result {
	const failMsg = "Failed to create employee."

	record := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		record[k] = v
	}

	if raw, present := record[AttrEmployeeID]; present {
		bodyID, isString := raw.(string)
		if !isString {
			return failure(failMsg, apperr.Validation("employeeId must be a string"))
		}
		if id != "" && bodyID != id {
			return failure(failMsg, apperr.Validation(fmt.Sprintf("employeeId %q does not match path parameter %q", bodyID, id)))
		}
	} else {
		record[AttrEmployeeID] = id
	}

	input := newRecord{
		EmployeeID: record[AttrEmployeeID].(string),
		Salary:     textOf(record[AttrSalary]),
	}
	if err := s.validate.Struct(input); err != nil {
		return failure(failMsg, apperr.Validation(formatValidationError(err)))
	}

	if err := s.records.Put(ctx, record); err != nil {
		return s.report("create", input.EmployeeID, failMsg, err)
	}

	s.logger.Debug("employee created", zap.String("employeeId", input.EmployeeID))
	return success(fmt.Sprintf("Successfully created employee with employeeId : %s.", input.EmployeeID), record)
}

// Update sets each field of fields on the record for id. The record is
// created if it does not exist.
func (s *Service) Update(ctx context.Context, id string, fields map[string]any) Result {
	failMsg := fmt.Sprintf("Failed to update employee details with employeeId : %s.", id)
	if strings.TrimSpace(id) == "" {
		return failure(failMsg, apperr.Validation("employeeId is required"))
	}
	if _, present := fields[AttrEmployeeID]; present {
		return failure(failMsg, apperr.Validation("employeeId cannot be updated"))
	}

	update, err := store.SetFields(fields)
	if err != nil {
		return failure(failMsg, classify(err))
	}

	item, err := s.records.Update(ctx, id, update, store.UpdateOptions{})
	if err != nil {
		return s.report("update", id, failMsg, err)
	}

	doc, err := item.Map()
	if err != nil {
		return s.report("update", id, failMsg, apperr.Internal("unmarshal attributes", err))
	}
	return success(fmt.Sprintf("Successfully updated employee details of employeeId : %s.", id), doc)
}

// RemovePerformanceInfo removes the performanceInfo attribute of an existing record.
func (s *Service) RemovePerformanceInfo(ctx context.Context, id string) Result {
	failMsg := fmt.Sprintf("Failed to delete employee performance Information details with employeeId : %s.", id)
	if strings.TrimSpace(id) == "" {
		return failure(failMsg, apperr.Validation("employeeId is required"))
	}

	_, err := s.records.Update(ctx, id, store.RemoveField(AttrPerformanceInfo), store.UpdateOptions{RequireExists: true})
	if errors.Is(err, store.ErrPreconditionFailed) {
		msg := fmt.Sprintf("Employee details not found for employeeId : %s.", id)
		return failure(msg, apperr.NotFound(msg))
	}
	if err != nil {
		return s.report("remove performanceInfo", id, failMsg, err)
	}
	return success(fmt.Sprintf("Successfully deleted performance Information details of employeeId : %s.", id), nil)
}

// SetPerformanceInfoActive soft deletes (false) or restores (true) the
// performanceInfo of an existing record. isActive must be a bool.
func (s *Service) SetPerformanceInfoActive(ctx context.Context, id string, isActive any) Result {
	const typeMsg = "isActive attribute should be of boolean type!"
	failMsg := fmt.Sprintf("Failed to soft delete employee performance Information details with employeeId : %s.", id)

	active, isBool := isActive.(bool)
	if !isBool {
		return failure(typeMsg, apperr.Validation(typeMsg))
	}
	if strings.TrimSpace(id) == "" {
		return failure(failMsg, apperr.Validation("employeeId is required"))
	}

	_, err := s.records.Update(ctx, id, store.SetField(AttrIsActive, active), store.UpdateOptions{RequireExists: true})
	if errors.Is(err, store.ErrPreconditionFailed) {
		msg := fmt.Sprintf("Employee details not found for employeeId : %s.", id)
		return failure(msg, apperr.NotFound(msg))
	}
	if err != nil {
		return s.report("set isActive", id, failMsg, err)
	}

	if active {
		return success(fmt.Sprintf("Successfully RESTORED soft deleted performance Information details of employeeId : %s.", id), nil)
	}
	return success(fmt.Sprintf("Successfully soft deleted performance Information details of employeeId : %s.", id), nil)
}

// report logs err and converts it to a failed Result.
func (s *Service) report(op, id, message string, err error) Result {
	err = classify(err)
	s.logger.Error("employee operation failed",
		zap.String("op", op),
		zap.String("employeeId", id),
		zap.String("kind", string(apperr.KindOf(err))),
		zap.Error(err),
	)
	return failure(message, err)
}

// classify maps store errors onto the application taxonomy.
func classify(err error) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, store.ErrPreconditionFailed):
		return apperr.NotFound(err.Error())
	case errors.Is(err, store.ErrUnavailable):
		return apperr.StoreUnavailable("store unavailable", err)
	case errors.Is(err, store.ErrEmptyUpdate), errors.Is(err, store.ErrInvalidField):
		return apperr.Validation(err.Error())
	default:
		return apperr.Internal("unexpected error", err)
	}
}
