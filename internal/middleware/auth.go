package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/crystal-levels/internal/config"
)

type ctxKey int

const ctxAuthorClaims ctxKey = iota

// Auth puts valid author claims into the request context. Requests without
// them go through anonymously and get their stale cookies cleared.
func Auth(log logrus.FieldLogger, cookies *config.Cookies) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := cookies.ParseAuthorClaims(r)
			if err != nil {
				if !errors.Is(err, http.ErrNoCookie) {
					log.WithError(err).Debug("dropping invalid auth cookies")
					cookies.Clear(w)
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAuthorClaims(r.Context(), claims)))
		})
	}
}

func WithAuthorClaims(ctx context.Context, claims *config.AuthorClaims) context.Context {
	return context.WithValue(ctx, ctxAuthorClaims, claims)
}

func AuthorClaims(ctx context.Context) (*config.AuthorClaims, bool) {
	claims, ok := ctx.Value(ctxAuthorClaims).(*config.AuthorClaims)
	return claims, ok
}
