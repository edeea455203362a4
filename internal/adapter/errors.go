package adapter

import (
	"net/http"

	"github.com/tansive/restadapter/internal/common/apperrors"
)

// Caller contract violations. These are returned before any request is
// issued. All are derived from ErrAdapter.
var (
	ErrAdapter apperrors.Error = apperrors.New("adapter error").SetStatusCode(http.StatusBadRequest)

	// ErrUnknownConnection is returned when no connection is registered
	// under the given identity.
	ErrUnknownConnection = ErrAdapter.New("unknown connection")

	// ErrUnknownCollection is returned when the connection has no
	// collection with the given name.
	ErrUnknownCollection = ErrAdapter.New("unknown collection")

	// ErrMissingID is returned by Update and Destroy when where.id is absent.
	ErrMissingID = ErrAdapter.New("query requires where.id")

	// ErrInvalidPagination is returned by Find when no page is supplied and
	// the page cannot be derived from skip and limit.
	ErrInvalidPagination = ErrAdapter.New("page cannot be computed: limit must be greater than zero and skip non-negative")

	// ErrEncodeValues is returned when record values or query values cannot
	// be serialized.
	ErrEncodeValues = ErrAdapter.New("unable to encode values")
)
