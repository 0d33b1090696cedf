// Package auth verifies the opaque session token a client presents at
// connection time and yields the stable caller identity behind it. Token
// issuance normally happens in the OAuth callback of the web frontend; the
// dev-mode mint below exists so agents and tests can get a token without
// that flow.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// Identity is a verified caller: the provider's stable subject ID plus
// profile fields carried in the token.
type Identity struct {
	CallerID    string
	DisplayName string
	Email       string
	Picture     string
}

// Claims mirrors the session token minted by the OAuth callback: the
// Google subject in `sub`, profile fields alongside.
type Claims struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Verifier validates and mints HS256 session tokens.
type Verifier struct {
	secret []byte
	ttl    time.Duration
}

func NewVerifier(secret string, ttl time.Duration) *Verifier {
	return &Verifier{secret: []byte(secret), ttl: ttl}
}

// Verify parses the token and returns the identity it carries, or
// ErrInvalidToken for anything malformed, expired or mis-signed.
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	name := claims.Name
	if name == "" {
		name = claims.Subject
	}
	return &Identity{
		CallerID:    claims.Subject,
		DisplayName: name,
		Email:       claims.Email,
		Picture:     claims.Picture,
	}, nil
}

// Mint signs a session token for the given identity.
func (v *Verifier) Mint(id Identity) (string, error) {
	now := time.Now()
	claims := Claims{
		Name:    id.DisplayName,
		Email:   id.Email,
		Picture: id.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.CallerID,
			ExpiresAt: jwt.NewNumericDate(now.Add(v.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}
