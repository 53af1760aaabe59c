package model

import "fmt"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Fetch error codes. HTTP failures use the response status code instead.
const (
	FetchCodeNone      = 0
	FetchCodeTransport = 1
	FetchCodeShape     = 2
)

// User-facing messages for each fetch failure kind.
const (
	MessageTransport = "There was a problem fetching the api."
	MessageHTTP      = "There was a problem accessing the information, please try again later."
	MessageShape     = "The response did not conform to the existing schema"
)

// FetchError classifies the outcome of the last fetch attempt.
// The zero value means no error.
type FetchError struct {
	HasError    bool   `json:"hasError"`
	Code        int    `json:"code"`
	UserMessage string `json:"userMessage"`
}

// NoFetchError is the blank error state.
var NoFetchError = FetchError{}

// NewTransportError reports a failure to reach the endpoint or read its body.
func NewTransportError() FetchError {
	return FetchError{HasError: true, Code: FetchCodeTransport, UserMessage: MessageTransport}
}

// NewHTTPError reports a non-200 response.
func NewHTTPError(status int) FetchError {
	return FetchError{HasError: true, Code: status, UserMessage: MessageHTTP}
}

// NewShapeError reports a body that is not a products envelope.
func NewShapeError() FetchError {
	return FetchError{HasError: true, Code: FetchCodeShape, UserMessage: MessageShape}
}

func (e FetchError) Error() string {
	if !e.HasError {
		return "no error"
	}
	return fmt.Sprintf("fetch error %d: %s", e.Code, e.UserMessage)
}

// Kind names the failure class for logs.
func (e FetchError) Kind() string {
	switch {
	case !e.HasError:
		return "none"
	case e.Code == FetchCodeTransport:
		return "transport"
	case e.Code == FetchCodeShape:
		return "shape"
	default:
		return "http"
	}
}

// DomainError is returned by the panel layer for request-level failures.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON   = "INVALID_JSON"
	ErrCodeInvalidSource = "INVALID_SOURCE"
	ErrCodeNoPayload     = "NO_PAYLOAD"
)

// Common domain errors
var (
	ErrInvalidSource = NewDomainError(ErrCodeInvalidSource, "source URL must be an absolute http or https URL")
	ErrNoPayload     = NewDomainError(ErrCodeNoPayload, "no product data has been loaded yet")
)
