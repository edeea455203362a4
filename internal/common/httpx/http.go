// Package httpx provides the JSON request and response helpers used by the
// mock REST API.
package httpx

import (
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/common/apperrors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ReadRequestBody returns the raw request body. Only methods that carry a
// body are accepted and the body must be valid JSON.
func ReadRequestBody(r *http.Request) ([]byte, error) {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
	default:
		return nil, ErrReqMethodNotSupported()
	}
	if r.Body == nil {
		log.Ctx(r.Context()).Error().Msg("empty request body")
		return nil, ErrUnableToParseReqData()
	}
	b, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, ErrUnableToReadRequest()
	}
	if !json.Valid(b) {
		return nil, ErrUnableToParseReqData()
	}
	return b, nil
}

// Response is what a RequestHandler returns on success.
type Response struct {
	StatusCode int
	Location   string // sent only with 201 Created
	Response   any    // marshaled as JSON; []byte and string are sent as is
}

// RequestHandler handles one request.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler to http.HandlerFunc, turning returned
// errors into JSON error bodies.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			if httperror, ok := err.(*Error); ok {
				httperror.Send(w)
			} else if appErr, ok := err.(apperrors.Error); ok {
				SendError(w, appErr)
			} else {
				ErrApplicationError(err.Error()).Send(w)
			}
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		var location []string
		if rsp.Location != "" {
			location = append(location, rsp.Location)
		}
		SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response, location...)
	})
}
