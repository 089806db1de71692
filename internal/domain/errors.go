package domain

import "errors"

// Gateway errors, classified once at the transport boundary.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrServerError  = errors.New("server error")
	ErrRequestError = errors.New("request rejected")
	ErrNetworkError = errors.New("network failure")
)

// Session errors.
var (
	ErrNoSession = errors.New("no stored session")
)

// Credential bridge errors. ErrDecodeFailed is diagnostic only and must
// never block a federated sign-in attempt.
var (
	ErrDecodeFailed     = errors.New("credential payload decode failed")
	ErrProviderNotReady = errors.New("identity provider not ready")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
