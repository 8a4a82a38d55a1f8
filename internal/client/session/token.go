package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken     = errors.New("no access token stored")
	ErrOpaqueToken = errors.New("access token is not a JWT")
)

// TokenInfo describes the stored access token. The claims are decoded
// without verifying the signature and are for display only.
type TokenInfo struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    jwt.MapClaims
}

// Expired reports whether the token carries an expiry before now.
func (t *TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

func (s *Session) TokenInfo(ctx context.Context) (*TokenInfo, error) {
	pair, err := s.store.Tokens(ctx)
	if err != nil {
		return nil, err
	}
	if pair.AccessToken == "" {
		return nil, ErrNoToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(pair.AccessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpaqueToken, err)
	}

	info := &TokenInfo{Claims: claims}
	info.Subject, _ = claims.GetSubject()
	info.Issuer, _ = claims.GetIssuer()
	if iat, _ := claims.GetIssuedAt(); iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}
