package auth

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth"
	"github.com/stretchr/testify/require"
)

func TestActivationTokenRoundTrip(t *testing.T) {
	manager := &Manager{JWTAuth: jwtauth.New("HS256", []byte("test-secret"), nil)}

	tokenString, err := manager.IssueActivationToken(context.Background(), "0xAbC", "sub-1")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	decoded, err := manager.DecodeActivationToken(context.Background(), tokenString)
	require.NoError(t, err)
	require.Equal(t, "0xAbC", decoded.Wallet)
	require.Equal(t, "sub-1", decoded.SubscriptionID)
	require.False(t, decoded.ExpiresAt.IsZero())
}

func TestDecodeActivationTokenGarbage(t *testing.T) {
	manager := &Manager{JWTAuth: jwtauth.New("HS256", []byte("test-secret"), nil)}

	_, err := manager.DecodeActivationToken(context.Background(), "not-a-token")
	require.Error(t, err)
}

func TestDecodeActivationTokenWrongSecret(t *testing.T) {
	issuer := &Manager{JWTAuth: jwtauth.New("HS256", []byte("test-secret"), nil)}
	verifier := &Manager{JWTAuth: jwtauth.New("HS256", []byte("other-secret"), nil)}

	tokenString, err := issuer.IssueActivationToken(context.Background(), "0xabc", "sub-1")
	require.NoError(t, err)

	_, err = verifier.DecodeActivationToken(context.Background(), tokenString)
	require.Error(t, err)
}
