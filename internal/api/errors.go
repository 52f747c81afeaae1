package api

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError is returned when the backend rejects the session (401/403).
type AuthError struct {
	StatusCode int
	Path       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("not authenticated (%d) on %s", e.StatusCode, e.Path)
}

// StatusError is returned for any other non-2xx response. Detail holds
// the backend's "detail" field when the body carried one.
type StatusError struct {
	StatusCode int
	Method     string
	Path       string
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend error (%d) on %s %s: %s", e.StatusCode, e.Method, e.Path, e.Detail)
	}
	return fmt.Sprintf("unexpected status %d on %s %s", e.StatusCode, e.Method, e.Path)
}

// AnalysisError is a successful response that reports an analysis
// failure in its body, e.g. {"error": "EMPTY_EMAIL_BODY", "message": "..."}.
type AnalysisError struct {
	Code    string
	Message string
}

func (e *AnalysisError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("analysis failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("analysis failed (%s)", e.Code)
}

// IsAuthError reports whether err was caused by a rejected session.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// ErrorDetail returns the user-facing text for err: the backend detail
// or analysis message when present, fallback otherwise.
func ErrorDetail(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) && strings.TrimSpace(statusErr.Detail) != "" {
		return statusErr.Detail
	}

	var analysisErr *AnalysisError
	if errors.As(err, &analysisErr) && analysisErr.Message != "" {
		return analysisErr.Message
	}

	if IsAuthError(err) {
		return "Session expired, please log in again"
	}

	return fallback
}
