// Package auth carries the caller's bearer token from the inbound request
// to outbound calls. Tokens are opaque here; nothing is verified or refreshed.
package auth

import (
	"context"
	"strings"
)

type ctxKey struct{}

func WithBearerToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ctxKey{}, token)
}

func BearerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ctxKey{}).(string)
	return token, ok && token != ""
}

// ParseAuthorization extracts the token from an "Authorization: Bearer x" header.
func ParseAuthorization(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
