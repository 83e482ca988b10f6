package loginsessions

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	interrors "github.com/jrsteele09/go-oidc-authorize/internal/errors"
)

// TokenSigner mints and verifies the opaque signed tokens that identify login
// sessions in the client-side cookie. Signing makes a forged or truncated
// cookie fail verification before any storage lookup happens.
type TokenSigner struct {
	key     []byte
	nowTime func() time.Time
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewTokenSigner(key []byte) *TokenSigner {
	return &TokenSigner{key: key, nowTime: time.Now}
}

// Sign produces the cookie value for a login session.
func (ts *TokenSigner) Sign(sessionID string, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(ts.nowTime()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(ts.key)
	if err != nil {
		return "", interrors.Wrapf(err, "[TokenSigner.Sign] SignedString")
	}
	return signed, nil
}

// Verify checks the signature and expiry of a cookie value and returns the
// session ID it carries. Any failure yields ErrInvalidToken.
func (ts *TokenSigner) Verify(tokenString string) (string, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, interrors.ErrInvalidToken
		}
		return ts.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(func() time.Time { return ts.nowTime() }))
	if err != nil || !token.Valid || claims.SessionID == "" {
		return "", interrors.ErrInvalidToken
	}
	return claims.SessionID, nil
}
