package auth

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated signals a missing, malformed or unverifiable credential.
// Failure is terminal for the attempt; the client must retry with a fresh token.
var ErrUnauthenticated = errors.New("auth: invalid or missing credential")

// Identity is the opaque verified identity bound to a connection or request.
// It is immutable once issued.
type Identity struct {
	UserID string
}

// Claims is the JWT claim set this service verifies. Token issuance happens
// in the identity service; this core only validates.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 bearer tokens and extracts the bound identity.
type Verifier struct {
	secret []byte
}

// NewVerifier constructs a Verifier with the given shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// NewVerifierFromEnv reads the JWT_SECRET environment variable.
func NewVerifierFromEnv() (*Verifier, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, errors.New("auth: JWT_SECRET environment variable is not set")
	}
	return NewVerifier(secret), nil
}

// Verify parses and validates a token, returning the bound identity.
func (v *Verifier) Verify(token string) (*Identity, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ErrUnauthenticated
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return nil, ErrUnauthenticated
	}
	return &Identity{UserID: claims.UserID}, nil
}

// Sign issues a token for userID. Exposed for tooling and tests; the
// production issuer lives in the identity service.
func (v *Verifier) Sign(userID string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
