package autotask

import "fmt"

// Kind classifies a failed operation. Every failure the client produces
// carries exactly one kind; the tool layer turns kinds into user-facing
// error strings without inspecting status codes again.
type Kind int

const (
	// KindUnexpected covers anything not explicitly classified.
	KindUnexpected Kind = iota
	// KindValidation is a caller error caught before any network call.
	KindValidation
	// KindAuth is an HTTP 401.
	KindAuth
	// KindNotFound is an HTTP 404.
	KindNotFound
	// KindBadRequest is an HTTP 400.
	KindBadRequest
	// KindServer is any HTTP 5xx.
	KindServer
	// KindConnect means the backend was unreachable.
	KindConnect
	// KindTimeout means the operation exceeded its timeout budget.
	KindTimeout
	// KindJobFailed means a deferred search job reported FAILURE.
	KindJobFailed
)

// Error is a classified client failure.
type Error struct {
	Kind       Kind
	StatusCode int // zero for transport and validation failures
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%v)", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the kind from an error, or KindUnexpected when the
// error did not originate from this package.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnexpected
}

func validationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func authError() *Error {
	return &Error{
		Kind:       KindAuth,
		StatusCode: 401,
		Message:    "Authentication failed. Please check your AUTOTASK_API_KEY. The API key may be invalid or expired.",
	}
}

func notFoundError(msg string) *Error {
	return &Error{Kind: KindNotFound, StatusCode: 404, Message: msg}
}

func badRequestError(detail string) *Error {
	return &Error{Kind: KindBadRequest, StatusCode: 400, Message: detail}
}

func serverError(status int) *Error {
	return &Error{
		Kind:       KindServer,
		StatusCode: status,
		Message:    fmt.Sprintf("Server error (%d). The Autotask search service may be experiencing issues.", status),
	}
}

func connectError(baseURL string, err error) *Error {
	return &Error{
		Kind:    KindConnect,
		Message: fmt.Sprintf("Could not connect to the Autotask API at %s. Please check that the backend server is running.", baseURL),
		Err:     err,
	}
}

func timeoutError(err error) *Error {
	return &Error{
		Kind:    KindTimeout,
		Message: "Request timed out. Try a more specific query or check server performance.",
		Err:     err,
	}
}

func canceledError(err error) *Error {
	return &Error{
		Kind:    KindUnexpected,
		Message: "Request was cancelled before completion.",
		Err:     err,
	}
}

func jobError(detail string) *Error {
	if detail == "" {
		detail = "the backend reported no detail"
	}
	return &Error{
		Kind:    KindJobFailed,
		Message: fmt.Sprintf("Search job failed: %s", detail),
	}
}

func unexpectedError(status int, body string) *Error {
	const max = 200
	if len(body) > max {
		body = body[:max] + "..."
	}
	return &Error{
		Kind:       KindUnexpected,
		StatusCode: status,
		Message:    fmt.Sprintf("Unexpected response from the Autotask API (status %d): %s", status, body),
	}
}
