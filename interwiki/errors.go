package interwiki

import "errors"

// Sentinel errors for interwiki operations
var (
	ErrMissingPrefix  = errors.New("need to specify prefix and URL")
	ErrMissingURL     = errors.New("need to specify URL")
	ErrPrefixNotFound = errors.New("interwiki prefix not found")
)

// IsUsageError reports whether err was caused by missing arguments rather
// than by the store.
func IsUsageError(err error) bool {
	return errors.Is(err, ErrMissingPrefix) || errors.Is(err, ErrMissingURL)
}

// StoreError wraps a failure of the backing store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "interwiki store: " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
