package models

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"
	"github.com/pkg/errors"
)

const (
	activationTokenExpiresIn = time.Hour * 24

	claimWallet       = "wallet"
	claimSubscription = "sub_id"
	claimExp          = "exp"
)

type TokenEncoder interface {
	Encode(claims jwtauth.Claims) (t *jwt.Token, tokenString string, err error)
}

// ActivationToken authorizes activating a liquidation-watcher subscription
// and, once activated, subscribing to its alert stream.
type ActivationToken struct {
	Wallet         string
	SubscriptionID string
	ExpiresAt      time.Time
}

func NewActivationToken(wallet, subscriptionID string) *ActivationToken {
	return &ActivationToken{
		Wallet:         wallet,
		SubscriptionID: subscriptionID,
		ExpiresAt:      time.Now().Add(activationTokenExpiresIn),
	}
}

func ActivationTokenFromClaims(claims map[string]interface{}) (*ActivationToken, error) {
	wallet, ok := claims[claimWallet].(string)
	if !ok || wallet == "" {
		return nil, errors.New("empty wallet claim")
	}

	subscriptionID, ok := claims[claimSubscription].(string)
	if !ok || subscriptionID == "" {
		return nil, errors.New("empty subscription claim")
	}

	exp, ok := claims[claimExp].(float64)
	if !ok || exp == 0 {
		return nil, errors.New("empty exp claim")
	}

	return &ActivationToken{
		Wallet:         wallet,
		SubscriptionID: subscriptionID,
		ExpiresAt:      time.Unix(int64(exp), 0),
	}, nil
}

func ActivationTokenFromContext(ctx context.Context) (*ActivationToken, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to retrieve an activation token from a context")
	}
	return ActivationTokenFromClaims(claims)
}

func (t *ActivationToken) Encode(encoder TokenEncoder) (string, error) {
	_, tokenString, err := encoder.Encode(jwtauth.Claims{
		claimWallet:       t.Wallet,
		claimSubscription: t.SubscriptionID,
		claimExp:          t.ExpiresAt.Unix(),
	})
	return tokenString, errors.Wrap(err, "failed to encode a jwt")
}
