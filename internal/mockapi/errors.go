package mockapi

import (
	"net/http"

	"github.com/tansive/restadapter/internal/common/apperrors"
)

var (
	ErrStore       apperrors.Error = apperrors.New("store error").SetStatusCode(http.StatusInternalServerError)
	ErrDuplicateID                 = ErrStore.New("duplicate id").SetStatusCode(http.StatusConflict)
)

var ErrUnknownCollection = apperrors.New("unknown collection").SetStatusCode(http.StatusNotFound)
