package service

import "errors"

// Sentinel errors returned by service operations. The HTTP layer maps them
// onto status codes.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled  = errors.New("account disabled")
	ErrFeatureLocked    = errors.New("feature not available on current plan")
	ErrQuotaExceeded    = errors.New("monthly quota exceeded")
	ErrBackpressure     = errors.New("processing queue is full")
	ErrSessionExpired   = errors.New("checkout session expired")
	ErrAlreadyCompleted = errors.New("checkout session already completed")
)
