package types

import (
	"errors"
	"fmt"
)

// Workflow errors. These are caller mistakes and are never retried.
var (
	ErrNotFound          = errors.New("contract not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("operation not permitted for this user")

	// ErrConflict means the contract changed under an optimistic update
	// (concurrent workflow actions on the same contract).
	ErrConflict = errors.New("contract was modified concurrently, reload and retry")
)

// ValidationError marks bad input, e.g. an empty contract body.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// FailureCause classifies why a call to the LLM collaborator failed.
type FailureCause string

const (
	CauseInvalidCredentials FailureCause = "invalid credentials"
	CauseMissingModel       FailureCause = "missing model"
	CauseRateLimited        FailureCause = "rate limited"
	CauseUnavailable        FailureCause = "service unavailable"
	CauseTimeout            FailureCause = "timed out"
	CauseNetwork            FailureCause = "network unavailable"
)

// ServiceError is a classified failure from an external service call.
type ServiceError struct {
	Op    string
	Cause FailureCause
	Err   error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Cause, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is likely to succeed on retry.
// Credential and missing-model failures never recover on their own.
func (e *ServiceError) Retryable() bool {
	switch e.Cause {
	case CauseRateLimited, CauseUnavailable, CauseTimeout, CauseNetwork:
		return true
	default:
		return false
	}
}
