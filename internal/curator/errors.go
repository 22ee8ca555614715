package curator

import (
	"errors"
	"fmt"
	"net/http"

	"learnpath/internal/youtube"
)

// Kind is the machine-readable error category surfaced to API clients.
type Kind string

const (
	KindQuotaExceeded     Kind = "QUOTA_EXCEEDED_DAILY"
	KindInvalidKey        Kind = "INVALID_KEY"
	KindAccessDenied      Kind = "ACCESS_DENIED"
	KindNoResults         Kind = "NO_RESULTS"
	KindNoRelevantResults Kind = "NO_RELEVANT_RESULTS"
	KindUpstream          Kind = "UPSTREAM_ERROR"
)

// Error is a pipeline failure with a user-facing message. Fetch
// failures become one of these; AI failures never do (they are
// recovered by the fallback scorers).
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindQuotaExceeded:
		return http.StatusTooManyRequests
	case KindInvalidKey, KindAccessDenied:
		return http.StatusInternalServerError
	case KindNoResults, KindNoRelevantResults:
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// mapFetchError translates fetcher sentinels into the taxonomy.
func mapFetchError(err error) *Error {
	switch {
	case errors.Is(err, youtube.ErrQuotaExhausted):
		return &Error{
			Kind:    KindQuotaExceeded,
			Message: "Daily search quota has been exhausted. Please try again tomorrow.",
			cause:   err,
		}
	case errors.Is(err, youtube.ErrInvalidKey):
		return &Error{
			Kind:    KindInvalidKey,
			Message: "The video search service is misconfigured. Please contact the operator.",
			cause:   err,
		}
	case errors.Is(err, youtube.ErrAccessDenied):
		return &Error{
			Kind:    KindAccessDenied,
			Message: "Access to the video search service was denied. Please contact the operator.",
			cause:   err,
		}
	case errors.Is(err, youtube.ErrNoResults):
		return &Error{
			Kind:    KindNoResults,
			Message: "No suitable videos were found for this topic. Try rephrasing your search.",
			cause:   err,
		}
	default:
		return &Error{
			Kind:    KindUpstream,
			Message: "The video search service failed. Please try again shortly.",
			cause:   err,
		}
	}
}
