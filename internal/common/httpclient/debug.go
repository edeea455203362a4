package httpclient

import (
	"net/http"
	"net/http/httputil"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// debugTransport logs full request and response dumps at debug level.
// Dumps include headers and bodies, so it must not be enabled where those
// carry secrets that logs should not see.
type debugTransport struct{ base http.RoundTripper }

func (dt *debugTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	logger := log.Ctx(req.Context())
	if logger.GetLevel() == zerolog.Disabled {
		logger = &log.Logger
	}
	if reqDump, err := httputil.DumpRequestOut(req, true); err == nil {
		logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Str("request_dump", string(reqDump)).Msg("HTTP request")
	}

	resp, err := dt.base.RoundTrip(req)
	if err != nil {
		logger.Debug().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("HTTP request failed")
		return nil, err
	}

	if respDump, err := httputil.DumpResponse(resp, true); err == nil {
		logger.Debug().Str("method", req.Method).Str("url", req.URL.String()).Int("status_code", resp.StatusCode).Str("response_dump", string(respDump)).Msg("HTTP response")
	}
	return resp, nil
}
