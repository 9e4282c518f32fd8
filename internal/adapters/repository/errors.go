package repository

import "errors"

// Sentinel errors shared by every store backend.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrInvalidLimit  = errors.New("invalid limit")
)
