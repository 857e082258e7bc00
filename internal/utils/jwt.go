package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessTokenTTL is the fixed lifetime of every issued token.  Session
// policy, not configuration: every caller gets the same sixty minutes.
const AccessTokenTTL = 60 * time.Minute

// Token verification failures.  Every one of them maps to 401 at the
// HTTP boundary; the distinction exists for logging and tests only.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
)

// AccessToken represents a signed JWT access token along with its expiry.
// The Token field contains the JWT string.  Exp stores the expiration
// timestamp as a time.Time.  Tokens are bearer-only: possession implies
// authority, and there is no server-side revocation.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// TokenClaims carries the identity embedded in a verified token.
type TokenClaims struct {
	UserID uint64
	Role   string
}

// NewAccessToken builds and signs an HS256 JWT for a user.  The JWT
// includes standard claims: subject (sub), role, expiration (exp) and
// issued at (iat).  Expiry is always now + AccessTokenTTL.
func NewAccessToken(secret string, userID uint64, role string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(AccessTokenTTL)
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  now.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies the signature and expiry of a token string
// and returns the embedded claims.  The expiry boundary is exclusive: a
// token is accepted strictly before its exp timestamp.  Only HS256 is
// accepted; tokens signed with any other algorithm fail verification.
func ParseAccessToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenSignature
		}
		return []byte(secret), nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return TokenClaims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return TokenClaims{}, ErrTokenSignature
		default:
			return TokenClaims{}, ErrTokenMalformed
		}
	}
	if !tok.Valid {
		return TokenClaims{}, ErrTokenMalformed
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrTokenMalformed
	}
	out := TokenClaims{}
	switch sub := claims["sub"].(type) {
	case float64:
		out.UserID = uint64(sub)
	default:
		return TokenClaims{}, ErrTokenMalformed
	}
	if role, ok := claims["role"].(string); ok {
		out.Role = role
	}
	if out.UserID == 0 {
		return TokenClaims{}, ErrTokenMalformed
	}
	return out, nil
}
