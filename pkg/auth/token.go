package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const issuer = "library-management"

var ErrInvalidToken = errors.New("invalid session token")

type Config struct {
	Secret     string        `yaml:"secret" envconfig:"SESSION_SECRET" json:"-"`
	TTL        time.Duration `yaml:"ttl" envconfig:"SESSION_TTL" default:"24h"`
	CookieName string        `yaml:"cookieName" envconfig:"SESSION_COOKIE" default:"library_session"`
	Secure     bool          `yaml:"secure" envconfig:"SESSION_SECURE"`
}

type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs and verifies the session tokens stored in the session cookie.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (t *TokenManager) TTL() time.Duration {
	return t.ttl
}

// Generate issues a token bound to userID with a fresh session id.
func (t *TokenManager) Generate(userID int64) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign session token")
	}
	return signed, exp, nil
}

// Parse verifies the token and returns the user id it was issued for.
func (t *TokenManager) Parse(tokenStr string) (int64, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
