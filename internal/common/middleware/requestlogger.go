// Package middleware provides HTTP middleware for request logging, timeout
// handling and panic recovery, logging through zerolog.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/common/httpx"
	"github.com/tansive/restadapter/internal/common/logtrace"
)

const RequestIDHeader = "X-Request-ID"

// RequestLogger starts an operation for every request, echoes its id in the
// X-Request-ID response header and logs the request and its outcome.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logtrace.NewOperation(r.Context(), map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		})
		requestID := logtrace.OpIdFromContext(ctx)
		w.Header().Set(RequestIDHeader, requestID)

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		log.Ctx(ctx).Info().
			Str("request_url", fmt.Sprintf("%s://%s%s", scheme, r.Host, r.RequestURI)).
			Str("remote_ip", r.RemoteAddr).
			Str("proto", r.Proto).
			Msg("incoming request")

		rw := httpx.NewResponseWriter(w)
		defer func() {
			log.Ctx(ctx).Info().
				Int("status", rw.Status()).
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(rw, r.WithContext(ctx))
	})
}
