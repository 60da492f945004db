package logger

import "log/slog"

// Standard field keys. Use these consistently so log lines can be queried.
const (
	KeyTraceID = "trace_id"
	KeySpanID  = "span_id"

	// Store access
	KeyOperation  = "operation"
	KeyKey        = "key"
	KeyStoreType  = "store_type"
	KeyHealth     = "health"
	KeyErrorKind  = "error_kind"
	KeyAttempt    = "attempt"
	KeyMaxRetries = "max_retries"
	KeyBytes      = "bytes"
	KeyQuota      = "quota"

	// Drafts
	KeyDraftID   = "draft_id"
	KeyDraftName = "draft_name"
	KeyDrafts    = "drafts"
	KeyPinned    = "pinned"

	// Change tracking
	KeyState      = "state"
	KeyTrigger    = "trigger"
	KeyDirty      = "dirty"
	KeyQuietMs    = "quiet_ms"
	KeyGeneration = "generation"

	KeyDurationMs = "duration_ms"
	KeyError      = "error"
	KeyPath       = "path"
)

// Err returns an error attribute; nil errors produce an empty attribute that handlers drop.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// Key returns the store key attribute.
func Key(k string) slog.Attr {
	return slog.String(KeyKey, k)
}

// Operation returns the operation attribute.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// ErrorKind returns the storage error kind attribute.
func ErrorKind(kind string) slog.Attr {
	return slog.String(KeyErrorKind, kind)
}

// Attempt returns the retry attempt attribute (0-based).
func Attempt(n int) slog.Attr {
	return slog.Int(KeyAttempt, n)
}

// Bytes returns a byte count attribute.
func Bytes(n int) slog.Attr {
	return slog.Int(KeyBytes, n)
}

// DraftID returns the draft id attribute.
func DraftID(id string) slog.Attr {
	return slog.String(KeyDraftID, id)
}

// State returns the tracker state attribute.
func State(s string) slog.Attr {
	return slog.String(KeyState, s)
}

// DurationMs returns a duration attribute in milliseconds.
func DurationMs(ms float64) slog.Attr {
	return slog.Float64(KeyDurationMs, ms)
}
