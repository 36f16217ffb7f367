package booking

import "errors"

// Kind classifies a booking failure so handlers can map it to a stable
// HTTP status without string matching.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindInvalidRequest Kind = "invalid_request"
	KindConflict       Kind = "conflict"
	KindForbidden      Kind = "forbidden"
	KindExpired        Kind = "expired"
	KindInternal       Kind = "internal"
)

// Error carries a stable kind and a human-readable reason.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Reason
}

// NewError builds a typed booking error.
func NewError(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// unexpected store failures.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return KindInternal
}

func internalErr(err error) *Error {
	return &Error{Kind: KindInternal, Reason: err.Error()}
}
