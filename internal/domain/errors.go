package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrActiveSessionExists = errors.New("active sleep session already exists")
	ErrNoActiveSession     = errors.New("no active sleep session")
	ErrInvalidInput        = errors.New("invalid input")
)
