package connection

import (
	"net/http"

	"github.com/tansive/restadapter/internal/common/apperrors"
)

// Error definitions for the package.
// All errors are derived from ErrConnection.
var (
	ErrConnection apperrors.Error = apperrors.New("connection error").SetStatusCode(http.StatusBadRequest)

	ErrMissingIdentity     = ErrConnection.New("connection is missing an identity")
	ErrAlreadyRegistered   = ErrConnection.New("connection is already registered")
	ErrMissingPort         = ErrConnection.New("no port specified (e.g. 80)")
	ErrMissingHost         = ErrConnection.New("no host specified (e.g. api.example.com)")
	ErrInvalidProtocol     = ErrConnection.New("protocol must be http or https")
	ErrInvalidUpdateMethod = ErrConnection.New("update method must be PUT, PATCH or POST")
	ErrInvalidCollection   = ErrConnection.New("collection requires a resource url")
	ErrInvalidConfig       = ErrConnection.New("invalid connection config")
)
