package rotation

import "errors"

var (
	// ErrSchedulerNotRunning is returned when scheduling a task on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("rotation scheduler is not running")

	// ErrInvalidInterval is returned when the rotation interval is not positive
	ErrInvalidInterval = errors.New("rotation interval must be positive")
)
