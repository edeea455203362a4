package httpx

import (
	"net/http"

	"github.com/tansive/restadapter/internal/common/apperrors"
)

// Error is an HTTP error response. It is sent as
// {"message": "...", "errors": ...} with errors omitted when empty.
type Error struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Errors     any    `json:"errors,omitempty"`
}

// FieldError describes one invalid field of a request body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Send writes the error response. A nil writer is ignored.
func (e *Error) Send(w http.ResponseWriter) {
	if w == nil {
		return
	}
	rspJson, err := json.Marshal(e)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Unable to parse error"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	w.Write(rspJson)
}

func (e *Error) Error() string {
	return e.Message
}

// SendError sends an application error. Errors without a status code are
// reported as 500.
func SendError(w http.ResponseWriter, err apperrors.Error) {
	if err == nil {
		return
	}
	statusCode := err.StatusCode()
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	httperror := &Error{
		StatusCode: statusCode,
		Message:    err.ErrorAll(),
	}
	httperror.Send(w)
}

// Common Errors

// ErrReqMethodNotSupported returns an error for unsupported HTTP methods.
func ErrReqMethodNotSupported() *Error {
	return &Error{
		Message:    "request method not supported",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// ErrUnableToParseReqData returns an error when request data cannot be parsed.
func ErrUnableToParseReqData() *Error {
	return &Error{
		Message:    "unable to parse request data",
		StatusCode: http.StatusBadRequest,
	}
}

// ErrUnableToReadRequest returns an error when request data cannot be read.
func ErrUnableToReadRequest() *Error {
	return &Error{
		Message:    "unable to read request data",
		StatusCode: http.StatusBadRequest,
	}
}

// ErrApplicationError returns an error for application-level failures.
// If no message is provided, a default message is used.
func ErrApplicationError(msg ...string) *Error {
	s := "unable to process request"
	if len(msg) > 0 {
		s = msg[0]
	}
	return &Error{
		Message:    s,
		StatusCode: http.StatusInternalServerError,
	}
}

func ErrNotFound(msg string) *Error {
	return &Error{
		Message:    msg,
		StatusCode: http.StatusNotFound,
	}
}

// ErrInvalidRequest returns a 400 error.
func ErrInvalidRequest(msg ...string) *Error {
	s := "invalid request data or empty request values"
	if len(msg) > 0 {
		s = msg[0]
	}
	return &Error{
		Message:    s,
		StatusCode: http.StatusBadRequest,
	}
}

// ErrValidation returns a 422 error listing the invalid fields.
func ErrValidation(msg string, fields []FieldError) *Error {
	return &Error{
		Message:    msg,
		StatusCode: http.StatusUnprocessableEntity,
		Errors:     fields,
	}
}

// ErrRequestTimeout returns an error for requests that exceeded their deadline.
func ErrRequestTimeout() *Error {
	return &Error{
		Message:    "request timed out",
		StatusCode: http.StatusGatewayTimeout,
	}
}
