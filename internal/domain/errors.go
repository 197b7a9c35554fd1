package domain

import "errors"

var (
	ErrNotFound    = errors.New("resource not found")
	ErrHandleTaken = errors.New("handle already taken")
)
