package gistapi

import (
	"context"

	"golang.org/x/oauth2"
)

// CredentialSource supplies an optional bearer token. ok is false when no
// token is configured; the request then goes out unauthenticated.
type CredentialSource interface {
	Token(ctx context.Context) (token string, ok bool)
}

// StaticToken is a fixed token, typically from configuration.
type StaticToken string

// Token implements CredentialSource.
func (s StaticToken) Token(context.Context) (string, bool) {
	return string(s), s != ""
}

// Chain returns the first token offered by its members.
type Chain []CredentialSource

// Token implements CredentialSource.
func (c Chain) Token(ctx context.Context) (string, bool) {
	for _, src := range c {
		if src == nil {
			continue
		}
		if tok, ok := src.Token(ctx); ok {
			return tok, true
		}
	}
	return "", false
}

// TokenSource snapshots the token src offers now as an oauth2 source. ok is
// false when src is nil or has no token.
func TokenSource(ctx context.Context, src CredentialSource) (oauth2.TokenSource, bool) {
	if src == nil {
		return nil, false
	}
	tok, ok := src.Token(ctx)
	if !ok {
		return nil, false
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: tok, TokenType: "Bearer"}), true
}
