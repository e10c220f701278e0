package pool

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyConfigured is returned by a second Configure call.
	ErrAlreadyConfigured = errors.New("pool: already configured")
	// ErrNotConfigured is returned when the pool is used before Configure.
	ErrNotConfigured = errors.New("pool: not configured")
	// ErrNilFactory is returned when Configure gets a nil factory.
	ErrNilFactory = errors.New("pool: factory cannot be nil")
	// ErrDuplicateInstance is returned when the factory yields an instance
	// the pool already owns.
	ErrDuplicateInstance = errors.New("pool: factory returned an instance already in the pool")
)

// InvalidSizeError is returned by Configure for inconsistent size bounds.
type InvalidSizeError struct {
	Initial int
	Max     int
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("pool: invalid sizes initial=%d max=%d", e.Initial, e.Max)
}

// PoolExhaustedError is returned by Acquire when the free set is empty and
// the pool already holds Max instances. It is recoverable: the caller may
// drop the request, recycle an active instance or propagate.
type PoolExhaustedError struct {
	Max int
}

func (e *PoolExhaustedError) Error() string {
	return fmt.Sprintf("pool: exhausted (max %d instances, all active)", e.Max)
}

// NotActiveError is returned by Release when the instance is not in the
// active set: either it was already released or the pool never created it.
type NotActiveError struct {
	// Foreign is true when the instance does not belong to this pool.
	Foreign bool
}

func (e *NotActiveError) Error() string {
	if e.Foreign {
		return "pool: release of an instance this pool does not manage"
	}
	return "pool: release of an instance that is not active (double release)"
}

// IsExhausted reports whether err is a *PoolExhaustedError.
func IsExhausted(err error) bool {
	var e *PoolExhaustedError
	return errors.As(err, &e)
}

// IsNotActive reports whether err is a *NotActiveError.
func IsNotActive(err error) bool {
	var e *NotActiveError
	return errors.As(err, &e)
}
