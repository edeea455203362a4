package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tansive/restadapter/internal/common/httpx"
)

// SetTimeout puts a deadline of timeout on the request context. Handlers are
// expected to honor it; one that returns after the deadline without having
// written a response gets a 504.
func SetTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			rw := httpx.NewResponseWriter(w)
			next.ServeHTTP(rw, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Ctx(ctx).Error().Dur("timeout", timeout).Msg("request timed out")
				if !rw.Written() {
					httpx.ErrRequestTimeout().Send(rw)
				}
			}
		})
	}
}
