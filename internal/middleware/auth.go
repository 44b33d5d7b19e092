package middleware

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/settlewise/internal/auth"
)

// identityKey is the context key for the authenticated caller.
type identityKey struct{}

// Identity is the authenticated caller of an RPC.
type Identity struct {
	UserID      string
	Email       string
	DisplayName string
}

// WithIdentity returns a context carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// GetIdentity extracts the caller from the context.
func GetIdentity(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	id, _ := GetIdentity(ctx)
	return id.UserID
}

// RequireAuth returns an interceptor that rejects calls without a valid
// bearer token.
func RequireAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return authInterceptor(jwtManager, true)
}

// OptionalAuth returns an interceptor that identifies the caller when a
// bearer token is present. A malformed or expired token is still rejected so
// that clients notice they were logged out.
func OptionalAuth(jwtManager *auth.JWTManager) connect.UnaryInterceptorFunc {
	return authInterceptor(jwtManager, false)
}

func authInterceptor(jwtManager *auth.JWTManager, required bool) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			header := req.Header().Get("Authorization")
			if header == "" {
				if required {
					return nil, reject(req, auth.ErrMissingToken)
				}
				return next(ctx, req)
			}

			token, ok := bearerToken(header)
			if !ok {
				return nil, reject(req, auth.ErrInvalidToken)
			}

			claims, err := jwtManager.Validate(token)
			if err != nil {
				return nil, reject(req, err)
			}

			ctx = WithIdentity(ctx, Identity{
				UserID:      claims.UserID,
				Email:       claims.Email,
				DisplayName: claims.DisplayName,
			})
			return next(ctx, req)
		}
	}
}

// reject logs a refused call and returns it as Unauthenticated. Interceptors
// installed after auth never see these calls.
func reject(req connect.AnyRequest, err error) error {
	slog.Warn("RPC rejected",
		"procedure", req.Spec().Procedure,
		"peer", req.Peer().Addr,
		"error", err,
	)
	return connect.NewError(connect.CodeUnauthenticated, err)
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
