package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/bulletin-board/internal/apperror"
	"github.com/sakif/bulletin-board/internal/model"
)

// CookieName is the cookie that carries the credential. Its value has the
// form "Bearer <token>".
const CookieName = "Authorization"

// BearerScheme is the only accepted credential scheme.
const BearerScheme = "Bearer"

// Messages returned on authentication failure. They never say which check
// failed.
const (
	MsgLoginRequired = "login required"
	MsgBadCredential = "check your cookie"
)

type contextKey string

const userKey contextKey = "user"

// Authenticator resolves a verified token to a stored user.
// Implementations return an apperror.ErrUnauthenticated error when the
// token is bad or its subject no longer exists.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth is a middleware that enforces authentication on protected
// routes.
//
// It reads the credential from the Authorization cookie (or, failing that,
// the Authorization header), checks the Bearer scheme, and hands the token
// to the Authenticator. On success the resolved user is stored in the
// request context; on failure the chain stops with 403.
func RequireAuth(authn Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				writeAuthError(w, http.StatusForbidden, "unauthenticated", MsgLoginRequired)
				return
			}

			user, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperror.ErrUnauthenticated) {
					writeAuthError(w, http.StatusForbidden, "unauthenticated", MsgBadCredential)
					return
				}
				logger.Error("resolving authenticated user", slog.String("error", err.Error()))
				writeAuthError(w, http.StatusBadRequest, "operation_failed", "authentication failed")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext returns the authenticated user, or (nil, false) for an
// anonymous request.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// BearerToken extracts the token from a "Bearer <token>" credential. The
// cookie wins over the header when both are present.
func BearerToken(r *http.Request) (string, bool) {
	var raw string
	if c, err := r.Cookie(CookieName); err == nil {
		raw = c.Value
	} else {
		raw = r.Header.Get("Authorization")
	}
	return ParseBearer(raw)
}

// ParseBearer splits "Bearer <token>" and reports whether the scheme is
// exactly "Bearer" and the token is non-empty.
func ParseBearer(credential string) (string, bool) {
	scheme, token, found := strings.Cut(credential, " ")
	if !found || scheme != BearerScheme || token == "" {
		return "", false
	}
	return token, true
}

// BearerCredential formats a token as a cookie/header credential.
func BearerCredential(token string) string {
	return BearerScheme + " " + token
}

func writeAuthError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errType,
		"message": message,
	})
}
