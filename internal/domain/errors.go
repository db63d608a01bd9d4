package domain

import "errors"

var (
	ErrNotFound           = errors.New("todo not found")
	ErrConflict           = errors.New("todo already exists")
	ErrValidation         = errors.New("invalid todo")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
