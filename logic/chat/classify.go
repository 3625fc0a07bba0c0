package chat

import (
	"context"
	"errors"
	"net"
	"strings"

	"contractflow/types"
)

// Classify maps a raw transport/provider error onto the failure taxonomy the
// orchestrator uses to decide retry eligibility. Provider SDKs surface HTTP
// status codes inside error strings, so matching is textual.
func Classify(op string, err error) *types.ServiceError {
	var svcErr *types.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	cause := types.CauseUnavailable

	var netErr net.Error
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		cause = types.CauseTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		cause = types.CauseTimeout
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid api key") || strings.Contains(msg, "invalid_api_key"):
		cause = types.CauseInvalidCredentials
	case strings.Contains(msg, "model") && strings.Contains(msg, "not found"):
		cause = types.CauseMissingModel
	case strings.Contains(msg, "404"):
		cause = types.CauseMissingModel
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		cause = types.CauseRateLimited
	case strings.Contains(msg, "no such host") || strings.Contains(msg, "connection refused") || strings.Contains(msg, "network is unreachable"):
		cause = types.CauseNetwork
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded"):
		cause = types.CauseTimeout
	case strings.Contains(msg, "connection reset") || strings.Contains(msg, "500") || strings.Contains(msg, "502") || strings.Contains(msg, "503"):
		cause = types.CauseUnavailable
	}

	return &types.ServiceError{Op: op, Cause: cause, Err: err}
}
