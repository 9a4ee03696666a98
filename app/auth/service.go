package auth

import (
	"context"
	"net/http"

	"derisk/app/models"
)

type Service interface {
	GetJWTVerifier() func(http.Handler) http.Handler
	GetJWTAuthenticator() func(http.Handler) http.Handler
	IssueActivationToken(ctx context.Context, wallet, subscriptionID string) (string, error)
	DecodeActivationToken(ctx context.Context, tokenString string) (*models.ActivationToken, error)
}
