package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable     = errors.New("server unavailable")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrRejected        = errors.New("request rejected")
	ErrGraphQL         = errors.New("graphql error")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInvalidResponse = errors.New("invalid response")
)

// Kind classifies an APIError.
type Kind int

const (
	// KindNetwork: the request failed or returned non-2xx without a GraphQL body.
	KindNetwork Kind = iota + 1
	// KindGraphQL: the backend answered with an errors array.
	KindGraphQL
	// KindBusiness: the mutation answered success:false.
	KindBusiness
	// KindAuth: 401, or a GraphQL error coded UNAUTHENTICATED.
	KindAuth
	// KindValidation: input rejected before any I/O.
	KindValidation
	// KindDecode: the response did not match the expected schema.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindGraphQL:
		return "graphql"
	case KindBusiness:
		return "business"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// APIError is the single error type returned by the client.
type APIError struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Details    map[string]any
	Err        error
}

func (e *APIError) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is maps kinds onto the package sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnavailable:
		return e.Kind == KindNetwork
	case ErrUnauthorized:
		return e.Kind == KindAuth
	case ErrRejected:
		return e.Kind == KindBusiness
	case ErrGraphQL:
		return e.Kind == KindGraphQL
	case ErrInvalidInput:
		return e.Kind == KindValidation
	case ErrInvalidResponse:
		return e.Kind == KindDecode
	}
	return false
}

// AsAPIError unwraps err to *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusCode returns the status carried by err, or 0 when err is not an APIError.
func StatusCode(err error) int {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

func networkError(op string, status int, err error) *APIError {
	msg := "network error"
	if err != nil {
		msg = err.Error()
	} else if status != 0 {
		msg = http.StatusText(status)
	}
	return &APIError{Kind: KindNetwork, Op: op, StatusCode: status, Message: msg, Err: err}
}

func validationError(op string, err error) *APIError {
	return &APIError{Kind: KindValidation, Op: op, StatusCode: http.StatusBadRequest, Message: err.Error(), Err: err}
}

func decodeError(op string, err error) *APIError {
	return &APIError{Kind: KindDecode, Op: op, StatusCode: http.StatusInternalServerError, Message: err.Error(), Err: err}
}

func businessError(op, message string) *APIError {
	if message == "" {
		message = "request failed"
	}
	return &APIError{Kind: KindBusiness, Op: op, StatusCode: http.StatusBadRequest, Message: message}
}
