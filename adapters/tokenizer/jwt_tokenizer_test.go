package tokenizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/layer-3/gatekeeper/core"
)

func testClaims(ttl time.Duration) core.SessionClaims {
	now := time.Now().Truncate(time.Second)
	return core.SessionClaims{
		Address:    "0x8ba1f109551bd432803012645ac136ddd64dba72",
		UserID:     "user-1",
		AuthMethod: core.AuthMethodWallet,
		TokenID:    "jti-1",
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	tk := NewJWTTokenizer([]byte("test-secret"))
	claims := testClaims(time.Hour)

	token, err := tk.Issue(claims)
	require.NoError(t, err)

	got, err := tk.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, claims.Address, got.Address)
	assert.Equal(t, claims.UserID, got.UserID)
	assert.Equal(t, claims.AuthMethod, got.AuthMethod)
	assert.Equal(t, claims.TokenID, got.TokenID)
	assert.True(t, claims.IssuedAt.Equal(got.IssuedAt))
	assert.True(t, claims.ExpiresAt.Equal(got.ExpiresAt))
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewJWTTokenizer([]byte("secret-a")).Issue(testClaims(time.Hour))
	require.NoError(t, err)

	_, err = NewJWTTokenizer([]byte("secret-b")).Verify(token)
	require.ErrorIs(t, err, core.ErrTokenBadSignature)
}

func TestVerifyExpired(t *testing.T) {
	tk := NewJWTTokenizer([]byte("test-secret"))

	token, err := tk.Issue(testClaims(-time.Minute))
	require.NoError(t, err)

	_, err = tk.Verify(token)
	require.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestVerifyMalformed(t *testing.T) {
	tk := NewJWTTokenizer([]byte("test-secret"))

	for _, token := range []string{"", "garbage", "a.b.c", "a.b"} {
		_, err := tk.Verify(token)
		require.ErrorIs(t, err, core.ErrTokenMalformed, "token %q", token)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	tk := NewJWTTokenizer([]byte("test-secret"))

	token, err := tk.Issue(testClaims(time.Hour))
	require.NoError(t, err)

	tampered := []byte(token)
	tampered[len(tampered)/2] ^= 0x01

	_, err = tk.Verify(string(tampered))
	require.Error(t, err)
}
