package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/config"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer(&config.Config{
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
		AccessTokenTTL:     10 * time.Minute,
		RefreshTokenTTL:    7 * 24 * time.Hour,
	})
}

func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	ti := newTestIssuer()

	for _, kind := range []TokenKind{AccessToken, RefreshToken} {
		t.Run(kind.String(), func(t *testing.T) {
			tok, err := ti.Issue(42, kind)
			require.NoError(t, err)
			assert.NotEmpty(t, tok)

			got, err := ti.Verify(tok, kind)
			require.NoError(t, err)
			assert.Equal(t, uint64(42), got)
		})
	}
}

func TestTokenIssuer_SubjectClaim(t *testing.T) {
	ti := newTestIssuer()

	tok, err := ti.Issue(7, AccessToken)
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("access-secret"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, "7", claims.Subject)
	assert.Equal(t, 10*time.Minute, claims.ExpiresAt.Sub(claims.IssuedAt.Time))
}

func TestTokenIssuer_KindsAreNotInterchangeable(t *testing.T) {
	ti := newTestIssuer()

	access, err := ti.Issue(1, AccessToken)
	require.NoError(t, err)
	refresh, err := ti.Issue(1, RefreshToken)
	require.NoError(t, err)

	_, err = ti.Verify(access, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ti.Verify(refresh, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ti := newTestIssuer().WithClock(func() time.Time { return issuedAt })

	access, err := ti.Issue(5, AccessToken)
	require.NoError(t, err)
	refresh, err := ti.Issue(5, RefreshToken)
	require.NoError(t, err)

	before := ti.WithClock(func() time.Time { return issuedAt.Add(9 * time.Minute) })
	got, err := before.Verify(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(5), got)

	after := ti.WithClock(func() time.Time { return issuedAt.Add(11 * time.Minute) })
	_, err = after.Verify(access, AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// refresh outlives access
	_, err = after.Verify(refresh, RefreshToken)
	assert.NoError(t, err)

	week := ti.WithClock(func() time.Time { return issuedAt.Add(7*24*time.Hour + time.Minute) })
	_, err = week.Verify(refresh, RefreshToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenIssuer_Tampered(t *testing.T) {
	ti := newTestIssuer()

	tok, err := ti.Issue(1, AccessToken)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "2",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)
	forgedParts := strings.Split(forged, ".")

	// payload from the forged token, signature from the real one
	spliced := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = ti.Verify(spliced, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenIssuer_Rejects(t *testing.T) {
	ti := newTestIssuer()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).
		SignedString([]byte("access-secret"))
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("access-secret"))
	require.NoError(t, err)

	tests := map[string]string{
		"malformed":       "not.a.jwt",
		"empty":           "",
		"no expiry":       noExp,
		"non numeric sub": badSubject,
		"wrong algorithm": wrongAlg,
	}

	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ti.Verify(tok, AccessToken)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenIssuer_UnknownKind(t *testing.T) {
	ti := newTestIssuer()

	_, err := ti.Issue(1, TokenKind(9))
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = ti.Verify("x", TokenKind(9))
	assert.ErrorIs(t, err, ErrUnknownKind)
}
