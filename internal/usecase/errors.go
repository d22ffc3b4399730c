package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/youth-cup/internal/domain/schedule"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrNotReady              = errors.New("not ready")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ScheduleConflictError carries the rejected placement so callers can show it.
type ScheduleConflictError struct {
	Conflict schedule.Conflict
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Conflict.Message)
}

func (e *ScheduleConflictError) Is(target error) bool {
	return target == ErrConflict
}
