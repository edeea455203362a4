package adapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tansive/restadapter/internal/common/httpclient"
	"github.com/tidwall/gjson"
)

// Kind classifies a failed operation.
type Kind string

const (
	KindValidation Kind = "E_VALIDATION" // HTTP 400 or 422
	KindUnknown    Kind = "E_UNKNOWN"    // any other non-success status
	KindTransport  Kind = "E_TRANSPORT"  // no response was received
)

// DefaultErrorMessage is used when a failure body carries no message.
const DefaultErrorMessage = "API Error"

// APIError is the normalized form of a non-success HTTP response.
type APIError struct {
	StatusCode int             `json:"status"`
	Kind       Kind            `json:"code"`
	Message    string          `json:"message"`
	Errors     json.RawMessage `json:"errors,omitempty"` // field-level errors, as sent by the API
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", e.Kind, e.StatusCode, e.Message)
}

// ClassifyStatus maps an HTTP status code to an error kind.
func ClassifyStatus(statusCode int) Kind {
	switch statusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	default:
		return KindUnknown
	}
}

// KindOf reports the kind of an error returned by the adapter. Errors that
// are neither API nor transport failures yield an empty Kind.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	var te *httpclient.TransportError
	if errors.As(err, &te) {
		return KindTransport
	}
	return ""
}

// newAPIError builds an APIError from a non-success response. Field errors
// are taken from the body's "errors" member when withFieldErrors is set.
func newAPIError(rsp *httpclient.Response, withFieldErrors bool) *APIError {
	e := &APIError{
		StatusCode: rsp.StatusCode,
		Kind:       ClassifyStatus(rsp.StatusCode),
		Message:    DefaultErrorMessage,
	}
	if !gjson.ValidBytes(rsp.Body) {
		return e
	}
	if msg := gjson.GetBytes(rsp.Body, "message"); msg.Exists() && msg.String() != "" {
		e.Message = msg.String()
	}
	if withFieldErrors {
		if fe := gjson.GetBytes(rsp.Body, "errors"); fe.Exists() && fe.Type != gjson.Null {
			e.Errors = json.RawMessage(fe.Raw)
		}
	}
	return e
}
