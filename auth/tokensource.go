package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSource adapts the bearer strategy to oauth2.TokenSource so its
// credentials compose with oauth2.Transport and anything else built on the
// oauth2 package.
//
// oauth2.TokenSource.Token has no context parameter, so the context is
// captured at construction time. The adapter inherits the strategy's
// concurrency contract: it is not safe for concurrent use without external
// serialization.
func (b *BearerStrategy) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &bearerTokenSource{bearer: b, ctx: ctx}
}

type bearerTokenSource struct {
	bearer *BearerStrategy
	ctx    context.Context
}

// Compile-time check to ensure bearerTokenSource implements oauth2.TokenSource
var _ oauth2.TokenSource = (*bearerTokenSource)(nil)

// Token returns a valid access token, refreshing through the strategy when
// necessary.
func (ts *bearerTokenSource) Token() (*oauth2.Token, error) {
	access, err := ts.bearer.EnsureValidToken(ts.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: access,
		TokenType:   "Bearer",
		Expiry:      ts.bearer.store.AccessExpiry(),
	}, nil
}
