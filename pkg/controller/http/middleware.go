package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/secmon-lab/reachout/pkg/domain/model"
	"github.com/secmon-lab/reachout/pkg/utils/logging"
)

// UserIDHeader carries the acting user. It is trusted as-is; there is no authentication.
const UserIDHeader = "X-User-ID"

type ctxUserIDKey struct{}

// actingUser puts the X-User-ID header value into the request context
func actingUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), ctxUserIDKey{}, model.UserID(id))
		ctx = logging.With(ctx, logging.From(ctx).With("user_id", id))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userIDFrom returns the acting user id, or "" when the request carried none
func userIDFrom(ctx context.Context) model.UserID {
	if id, ok := ctx.Value(ctxUserIDKey{}).(model.UserID); ok {
		return id
	}
	return ""
}

// requireUserID returns the acting user id or a validation error
func requireUserID(ctx context.Context) (model.UserID, error) {
	id := userIDFrom(ctx)
	if id == "" {
		return "", model.NewValidationError("request", UserIDHeader, "header is required")
	}
	return id, nil
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
