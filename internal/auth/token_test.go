package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/domain"
)

func testUser() *domain.User {
	return &domain.User{ID: 42, Email: "user@example.com", Status: domain.UserStatusActive}
}

func TestIssueParseRoundTrip(t *testing.T) {
	tm := NewTokenManager("super-secret", time.Hour)

	token, expiresAt, err := tm.Issue(testUser(), 1, 7)
	require.NoError(t, err)
	require.True(t, expiresAt.After(time.Now()))

	parsed := tm.Parse(token)
	require.Equal(t, TokenStateValid, parsed.State)
	require.Equal(t, "user@example.com", parsed.Subject)
	require.Equal(t, 1, parsed.RefreshCount)
	require.Equal(t, 7, parsed.ReloginEpoch)
}

func TestParseWrongSecret(t *testing.T) {
	issuer := NewTokenManager("right-secret", time.Hour)
	verifier := NewTokenManager("wrong-secret", time.Hour)

	token, _, err := issuer.Issue(testUser(), 1, 0)
	require.NoError(t, err)

	parsed := verifier.Parse(token)
	require.Equal(t, TokenStateMalformed, parsed.State)
}

func TestParseGarbage(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	for _, tokenStr := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		parsed := tm.Parse(tokenStr)
		require.Equal(t, TokenStateMalformed, parsed.State, "token %q", tokenStr)
	}
}

func TestParseExpiredKeepsClaims(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour)

	token := signExpired(t, tm, "stale@example.com", 3, 5)

	parsed := tm.Parse(token)
	require.Equal(t, TokenStateExpired, parsed.State)
	require.Equal(t, "stale@example.com", parsed.Subject)
	require.Equal(t, 3, parsed.RefreshCount)
	require.Equal(t, 5, parsed.ReloginEpoch)
}

func TestParseExpiredWrongSecretIsMalformed(t *testing.T) {
	issuer := NewTokenManager("right-secret", time.Hour)
	verifier := NewTokenManager("wrong-secret", time.Hour)

	token := signExpired(t, issuer, "stale@example.com", 3, 5)

	parsed := verifier.Parse(token)
	require.Equal(t, TokenStateMalformed, parsed.State)
}

// signExpired builds a token whose expiry is already in the past, signed
// with the manager's own key.
func signExpired(t *testing.T, tm *TokenManager, subject string, refreshCount, epoch int) string {
	t.Helper()

	claims := &Claims{
		RefreshCount: refreshCount,
		ReloginEpoch: epoch,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(tm.secret)
	require.NoError(t, err)
	return token
}
