// Package gateway provides the AWS Lambda handler for API Gateway proxy events.
package gateway

import (
	"context"
	"encoding/base64"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"go.uber.org/zap"

	"github.com/PavanGupta6/employee/employee"
	"github.com/PavanGupta6/employee/router"
)

// Handler adapts API Gateway proxy events to the dispatcher.
type Handler struct {
	dispatcher *router.Dispatcher
	logger     *zap.Logger
}

// NewHandler creates a new gateway handler.
func NewHandler(d *router.Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		dispatcher: d,
		logger:     logger,
	}
}

// Handle processes a single API Gateway proxy request. Failures are always
// reported through the response; the returned error is reserved for the
// Lambda runtime and is always nil.
func (h *Handler) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := h.logger.With(
		zap.String("method", event.HTTPMethod),
		zap.String("resource", event.Resource),
		zap.String("requestID", requestID(ctx, event)),
	)

	body, err := decodeBody(event)
	if err != nil {
		logger.Warn("failed to decode request body", zap.Error(err))
		return toProxyResponse(router.Render(employee.Invalid("Invalid request body.", err))), nil
	}

	resp := h.dispatcher.Dispatch(ctx, router.Request{
		Resource:       event.Resource,
		HTTPMethod:     event.HTTPMethod,
		PathParameters: event.PathParameters,
		Body:           body,
	})

	logger.Info("request handled", zap.Int("status", resp.StatusCode))
	return toProxyResponse(resp), nil
}

// decodeBody returns the raw request body, decoding base64 when API Gateway
// flagged it as encoded.
func decodeBody(event events.APIGatewayProxyRequest) ([]byte, error) {
	if !event.IsBase64Encoded {
		return []byte(event.Body), nil
	}
	return base64.StdEncoding.DecodeString(event.Body)
}

// requestID prefers the Lambda invocation id, falling back to the API
// Gateway request id.
func requestID(ctx context.Context, event events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return event.RequestContext.RequestID
}

func toProxyResponse(resp router.Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: resp.Body,
	}
}
