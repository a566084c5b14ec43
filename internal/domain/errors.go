package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport covers connection failures and non-200 upstream responses.
	ErrTransport = errors.New("upstream request failed")
	// ErrContentType is returned when the upstream response is not JSON.
	ErrContentType = errors.New("invalid content-type")
	// ErrMalformedPayload is returned when fields or data are missing or inconsistent.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrParse is returned when the upstream body is not valid JSON.
	ErrParse = errors.New("parse payload")
)

// StatusError is a non-200 upstream response. It matches ErrTransport.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status code %d", ErrTransport, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return ErrTransport }

// StatusCode picks the status to report for err: the upstream status when the
// upstream answered with one, otherwise 500.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode > 0 {
		return se.StatusCode
	}
	return http.StatusInternalServerError
}

// ErrorKind names the error category for logs and metrics.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrContentType):
		return "content_type"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrParse):
		return "parse"
	default:
		return "internal"
	}
}
