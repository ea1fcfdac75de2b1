package tokenauth_test

import (
	"testing"
	"time"

	"github.com/dkravets/recipebook/internal/pkg/tokenauth"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := tokenauth.NewToken(42, time.Hour, secret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := tokenauth.UserID(token, secret)
	require.NoError(t, err)
	require.Equal(t, int64(42), userID)
}

func TestExpiredToken(t *testing.T) {
	token, err := tokenauth.NewToken(42, -time.Minute, secret)
	require.NoError(t, err)

	_, err = tokenauth.UserID(token, secret)
	require.Error(t, err)
}

func TestWrongSecret(t *testing.T) {
	token, err := tokenauth.NewToken(42, time.Hour, secret)
	require.NoError(t, err)

	_, err = tokenauth.UserID(token, "other-secret")
	require.Error(t, err)
}

func TestGarbageToken(t *testing.T) {
	_, err := tokenauth.UserID("not.a.token", secret)
	require.Error(t, err)
}
