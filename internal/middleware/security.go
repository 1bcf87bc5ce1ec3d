package middleware

import (
	"context"
	"log/slog"
	"net/http"

	apierrors "seopress/internal/errors"
	"seopress/internal/security"
)

type contextKey string

const userKey contextKey = "admin-user"

// WithUser returns a context carrying the authenticated admin user
func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated admin user, or ""
func UserFromContext(ctx context.Context) string {
	user, _ := ctx.Value(userKey).(string)
	return user
}

// AdminAuth gates the admin routes behind HTTP basic auth. Only the configured
// administrator may manage options.
func AdminAuth(auth *security.Authenticator, errHandler *apierrors.ErrorHandler, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			user, pass, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="seopress", charset="UTF-8"`)
				errHandler.HandleError(w, r, apierrors.ErrUnauthorized)
				return
			}

			if err := auth.Check(user, pass); err != nil {
				logger.WarnContext(ctx, "authentication failed",
					slog.String("user", user),
					slog.String("path", r.URL.Path),
					slog.String("remote_addr", r.RemoteAddr))

				w.Header().Set("WWW-Authenticate", `Basic realm="seopress", charset="UTF-8"`)
				errHandler.HandleError(w, r, apierrors.ErrUnauthorized)
				return
			}

			logger.DebugContext(ctx, "authentication successful", slog.String("user", user))
			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user)))
		})
	}
}
