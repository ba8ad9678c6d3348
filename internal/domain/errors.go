package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrLockHeld     = errors.New("lock already held")
	ErrNotBuildable = errors.New("event not buildable")
	ErrContextDone  = errors.New("context cancelled")
)
