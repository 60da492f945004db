package storage

import (
	"errors"
	"fmt"
)

// Kind classifies a storage failure.
type Kind int

const (
	// KindQuotaExceeded means the store's capacity is exhausted.
	KindQuotaExceeded Kind = iota + 1

	// KindAccessDenied means the store is unavailable, read-only or
	// permission-restricted.
	KindAccessDenied

	// KindCorrupted means a stored value failed basic shape expectations.
	KindCorrupted

	// KindUnknown is anything else, including exhausted retries.
	KindUnknown
)

// String returns the wire name of the kind ("quota-exceeded", ...).
func (k Kind) String() string {
	switch k {
	case KindQuotaExceeded:
		return "quota-exceeded"
	case KindAccessDenied:
		return "access-denied"
	case KindCorrupted:
		return "corrupted"
	case KindUnknown:
		return "unknown"
	case 0:
		return "none"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Sentinels for errors.Is. A *StoreError matches the sentinel of its Kind.
var (
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
	ErrAccessDenied  = errors.New("storage: access denied")
	ErrCorrupted     = errors.New("storage: corrupted data")
	ErrUnknown       = errors.New("storage: unknown failure")
)

func (k Kind) sentinel() error {
	switch k {
	case KindQuotaExceeded:
		return ErrQuotaExceeded
	case KindAccessDenied:
		return ErrAccessDenied
	case KindCorrupted:
		return ErrCorrupted
	default:
		return ErrUnknown
	}
}

// Op names the SafeStore operation that failed.
type Op string

const (
	OpRead   Op = "read"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
	OpClear  Op = "clear"
)

// StoreError is the failure descriptor every SafeStore operation returns.
//
// Message is user-facing text suitable for a notification. Err is the
// underlying provider error, if any.
type StoreError struct {
	Kind    Kind
	Op      Op
	Key     string
	Message string
	Err     error
}

// NewError builds a StoreError. Packages layered on SafeStore use it to report
// their own shape failures with the same taxonomy.
func NewError(kind Kind, op Op, key, message string, cause error) *StoreError {
	return &StoreError{Kind: kind, Op: op, Key: key, Message: message, Err: cause}
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q: %s: %s", e.Op, e.Key, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
}

// Unwrap returns the provider error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for e.Kind.
func (e *StoreError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// KindOf returns the Kind of err. nil yields 0, errors that are not a
// *StoreError yield KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return 0
	}
	var se *StoreError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var se *StoreError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return err.Error()
}
