package auth

import (
	"encoding/base64"
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/auth-service/internal/domain"
)

// TokenState classifies the outcome of parsing a presented token.
type TokenState int

const (
	// TokenStateValid means signature and expiry both check out.
	TokenStateValid TokenState = iota
	// TokenStateExpired means the signature is valid but the token has
	// passed its expiry; the decoded claims are still carried along.
	TokenStateExpired
	// TokenStateMalformed means the token is structurally broken or the
	// signature does not verify.
	TokenStateMalformed
)

// ParsedToken is the decoded view of a presented session token.
type ParsedToken struct {
	State        TokenState
	Subject      string
	RefreshCount int
	ReloginEpoch int
}

// TokenManager handles issuing and parsing signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. The signing key is normalized to
// its base64 form once here, so every issue/parse uses the same bytes.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = time.Hour
	}
	normalized := base64.StdEncoding.EncodeToString([]byte(secret))
	return &TokenManager{secret: []byte(normalized), ttl: ttl}
}

// Claims describes the session token payload. RefreshCount links successive
// tokens of one chain; ReloginEpoch ties the chain to the server epoch that
// was current when the chain started.
type Claims struct {
	RefreshCount int `json:"refresh_count"`
	ReloginEpoch int `json:"relogin_state"`
	jwt.RegisteredClaims
}

// Issue builds and signs a session token for the user. refreshCount is 1 for
// a fresh signin chain and previous+1 on refresh.
func (tm *TokenManager) Issue(user *domain.User, refreshCount, reloginEpoch int) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		RefreshCount: refreshCount,
		ReloginEpoch: reloginEpoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Parse verifies the token and classifies it. An expired token with a valid
// signature still yields its decoded claims; the refresh flow depends on
// recovering the subject and counter from exactly that case.
func (tm *TokenManager) Parse(tokenStr string) ParsedToken {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})

	switch {
	case err == nil && parsed.Valid:
		return ParsedToken{
			State:        TokenStateValid,
			Subject:      claims.Subject,
			RefreshCount: claims.RefreshCount,
			ReloginEpoch: claims.ReloginEpoch,
		}
	case errors.Is(err, jwt.ErrTokenExpired):
		// Signature verification precedes expiry validation, so the
		// claims here are authentic even though the token is stale.
		return ParsedToken{
			State:        TokenStateExpired,
			Subject:      claims.Subject,
			RefreshCount: claims.RefreshCount,
			ReloginEpoch: claims.ReloginEpoch,
		}
	default:
		return ParsedToken{State: TokenStateMalformed}
	}
}
