// Package clients calls the peer services this service depends on.
package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

type requestIDKey struct{}

// WithRequestID stores the inbound request id so outbound calls can forward it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestIDFromContext(ctx context.Context) string {
	if s, ok := ctx.Value(requestIDKey{}).(string); ok {
		return s
	}
	return ""
}

// StatusError is returned when a peer answers with a non-2xx status.
type StatusError struct {
	Service string
	Code    int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Service, e.Code)
}

// send runs a prepared agent and returns the response body of a 2xx answer.
// The agent is released by fiber after the call.
func send(ctx context.Context, service string, agent *fiber.Agent, timeout time.Duration) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		fiber.ReleaseAgent(agent)
		return nil, err
	}
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if rid := RequestIDFromContext(ctx); rid != "" {
		agent.Set(fiber.HeaderXRequestID, rid)
	}
	if d := effectiveTimeout(ctx, timeout); d > 0 {
		agent.Timeout(d)
	}
	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w", service, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, &StatusError{Service: service, Code: code}
	}
	return body, nil
}

// effectiveTimeout is the smaller of timeout and the time left before the
// context deadline.
func effectiveTimeout(ctx context.Context, timeout time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return timeout
	}
	left := time.Until(deadline)
	if left <= 0 {
		left = time.Millisecond
	}
	if timeout <= 0 || left < timeout {
		return left
	}
	return timeout
}
