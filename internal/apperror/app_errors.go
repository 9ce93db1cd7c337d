package apperror

import "errors"

var (
	ErrGameNotFound   = errors.New("game not found")
	ErrInvalidSession = errors.New("invalid session id")
	ErrUnknownStorage = errors.New("unknown storage driver")
)
