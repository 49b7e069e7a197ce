package auth

import (
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Validation failures callers can branch on. All of them describe a token
// that must be treated as absent, never as a process fault.
var (
	ErrTokenEmpty     = errors.New("token is empty")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrBadSignature   = errors.New("token signature does not verify")
	ErrTokenExpired   = errors.New("token is expired")
)

// Claims describes the JWT payload. Besides the registered subject it may
// carry display claims so the middleware can build a principal without a
// storage lookup. No secret material is ever embedded.
type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates signed bearer tokens. Secret and TTL
// are fixed at construction; a token manager is safe for concurrent use.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithTimeFunc overrides the clock. A manager built with a fixed clock and
// a zero or negative TTL issues tokens that are already expired, which is
// how expiry behavior is exercised deterministically.
func WithTimeFunc(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		tm.now = now
	}
}

// NewTokenManager builds a manager signing with the process-wide secret.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) *TokenManager {
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	return tm
}

// Issue signs a token carrying only the subject identifier.
func (tm *TokenManager) Issue(subjectID string) (string, time.Time, error) {
	return tm.IssueWithClaims(subjectID, "", "")
}

// IssueWithClaims signs a token that additionally embeds non-sensitive
// display claims, so login responses and the request middleware can render
// the caller without a second lookup.
func (tm *TokenManager) IssueWithClaims(subjectID, name, email string) (string, time.Time, error) {
	issuedAt := tm.now()
	expiresAt := issuedAt.Add(tm.ttl)
	claims := &Claims{
		Name:  name,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate parses and verifies a token, returning its claims. Expiry is
// inclusive: a token whose expiry equals the current instant is rejected.
func (tm *TokenManager) Validate(tokenStr string) (*Claims, error) {
	if strings.TrimSpace(tokenStr) == "" {
		return nil, ErrTokenEmpty
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, tm.keyFunc,
		jwt.WithTimeFunc(tm.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		default:
			return nil, ErrTokenMalformed
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

func (tm *TokenManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, errors.New("unexpected signing method")
	}
	return tm.secret, nil
}
