package domain

import "errors"

// Domain-level errors
var (
	ErrItemNotFound        = errors.New("item not found")
	ErrIDMismatch          = errors.New("ID mismatch between route parameter and item body")
	ErrConcurrencyConflict = errors.New("item was modified or removed by another request")
	ErrStoreUnavailable    = errors.New("shopping list store not available")
	ErrNotConfigured       = errors.New("database connection string is not configured")
	ErrTransient           = errors.New("database temporarily unreachable")
)

// Kind classifies an error so callers can branch on it without string matching.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindConcurrencyConflict
	KindConfiguration
	KindTransient
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// KindOf walks the error chain and reports the first kind it recognises.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var verrs ValidationErrors
	switch {
	case errors.As(err, &verrs), errors.Is(err, ErrIDMismatch):
		return KindValidation
	case errors.Is(err, ErrItemNotFound):
		return KindNotFound
	case errors.Is(err, ErrConcurrencyConflict):
		return KindConcurrencyConflict
	case errors.Is(err, ErrNotConfigured):
		return KindConfiguration
	case errors.Is(err, ErrTransient):
		return KindTransient
	case errors.Is(err, ErrStoreUnavailable):
		return KindUnavailable
	}

	return KindUnknown
}
