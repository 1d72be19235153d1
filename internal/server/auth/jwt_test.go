package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/projecthub/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("super-secret")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestIssuer(t *testing.T, now time.Time) *Issuer {
	t.Helper()
	i, err := NewIssuer(testSecret, time.Hour, WithClock(fixedClock(now)))
	require.NoError(t, err)
	return i
}

func TestNewIssuer_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewIssuer(nil, time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = NewIssuer(testSecret, 0)
	assert.ErrorIs(t, err, ErrInvalidLifetime)
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	i := newTestIssuer(t, now)

	tok, err := i.Issue("user-123")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.ID)
	assert.True(t, now.Add(time.Hour).Equal(tok.ExpiresAt))

	claims, err := i.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.Subject)
	assert.Equal(t, tok.ID, claims.ID)
	assert.Equal(t, DefaultIssuerName, claims.Issuer)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(t, time.Now())
	a, err := i.Issue("u")
	require.NoError(t, err)
	b, err := i.Issue("u")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestIssue_EmptySubject(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(t, time.Now())
	_, err := i.Issue("")
	assert.Error(t, err)
}

func TestVerify_ExpiresOnItsOwn(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	i, err := NewIssuer(testSecret, time.Hour, WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	tok, err := i.Issue("u1")
	require.NoError(t, err)

	clock = now.Add(59 * time.Minute)
	_, err = i.Verify(tok.Token)
	require.NoError(t, err)

	clock = now.Add(time.Hour + time.Second)
	_, err = i.Verify(tok.Token)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	now := time.Now()
	other, err := NewIssuer([]byte("other-secret"), time.Hour, WithClock(fixedClock(now)))
	require.NoError(t, err)
	tok, err := other.Issue("u2")
	require.NoError(t, err)

	_, err = newTestIssuer(t, now).Verify(tok.Token)
	assert.ErrorIs(t, err, common.ErrTokenBadSignature)
}

func TestVerify_BadSignatureWinsOverExpiry(t *testing.T) {
	t.Parallel()

	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	forger, err := NewIssuer([]byte("forged"), time.Minute, WithClock(fixedClock(past)))
	require.NoError(t, err)
	tok, err := forger.Issue("u3")
	require.NoError(t, err)

	_, err = newTestIssuer(t, time.Now()).Verify(tok.Token)
	assert.ErrorIs(t, err, common.ErrTokenBadSignature)
	assert.NotErrorIs(t, err, common.ErrTokenExpired)
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    DefaultIssuerName,
		Subject:   "admin",
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestIssuer(t, now).Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenBadSignature)
}

func TestVerify_RejectsOtherHMAC(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    DefaultIssuerName,
		Subject:   "u",
		ID:        "jti",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = newTestIssuer(t, now).Verify(tok)
	assert.ErrorIs(t, err, common.ErrTokenBadSignature)
}

func TestVerify_MissingClaims(t *testing.T) {
	t.Parallel()

	now := time.Now()
	for name, claims := range map[string]jwt.RegisteredClaims{
		"no jti": {Issuer: DefaultIssuerName, Subject: "u", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		"no sub": {Issuer: DefaultIssuerName, ID: "j", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		"no exp": {Issuer: DefaultIssuerName, Subject: "u", ID: "j"},
	} {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err, name)

		_, err = newTestIssuer(t, now).Verify(tok)
		assert.ErrorIs(t, err, common.ErrTokenMalformed, name)
	}
}

func TestVerify_WrongIssuer(t *testing.T) {
	t.Parallel()

	now := time.Now()
	other, err := NewIssuer(testSecret, time.Hour, WithClock(fixedClock(now)), WithIssuerName("someone-else"))
	require.NoError(t, err)
	tok, err := other.Issue("u")
	require.NoError(t, err)

	_, err = newTestIssuer(t, now).Verify(tok.Token)
	assert.ErrorIs(t, err, common.ErrTokenMalformed)
}

func TestVerify_MalformedStrings(t *testing.T) {
	t.Parallel()

	i := newTestIssuer(t, time.Now())
	for _, s := range []string{"", "not.a.jwt", "abc", "a.b.c.d", strings.Repeat("x", 300)} {
		_, err := i.Verify(s)
		assert.ErrorIs(t, err, common.ErrTokenMalformed, s)
	}
}

// Any single-bit change of a valid token must be rejected, and never as
// anything but malformed or forged.
func TestVerify_BitFlipTamper(t *testing.T) {
	t.Parallel()

	now := time.Now()
	i := newTestIssuer(t, now)
	tok, err := i.Issue("user-tamper")
	require.NoError(t, err)

	raw := []byte(tok.Token)
	for pos := range raw {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), raw...)
			tampered[pos] ^= 1 << bit

			_, err := i.Verify(string(tampered))
			if err == nil {
				t.Fatalf("flip byte %d bit %d accepted", pos, bit)
			}
			if !errors.Is(err, common.ErrTokenMalformed) && !errors.Is(err, common.ErrTokenBadSignature) {
				t.Fatalf("flip byte %d bit %d: unexpected error %v", pos, bit, err)
			}
		}
	}
}
