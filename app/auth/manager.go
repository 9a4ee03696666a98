package auth

import (
	"context"
	"net/http"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/jwtauth"
	"github.com/pkg/errors"

	"derisk/app/models"
	"derisk/pkg/log"
	"derisk/pkg/response"
	"derisk/pkg/web"
)

type Manager struct {
	JWTAuth *jwtauth.JWTAuth
}

func (m *Manager) GetJWTVerifier() func(http.Handler) http.Handler {
	// the activation link and the alert stream pass the token in a query
	// parameter, so look there as well as in the header
	return jwtauth.Verify(m.JWTAuth, jwtauth.TokenFromQuery, jwtauth.TokenFromHeader)
}

func (m *Manager) GetJWTAuthenticator() func(http.Handler) http.Handler {
	return Authenticator
}

func (m *Manager) IssueActivationToken(ctx context.Context, wallet, subscriptionID string) (string, error) {
	log.AddFields(ctx, "issue token for", wallet)

	activationToken := models.NewActivationToken(wallet, subscriptionID)
	return activationToken.Encode(m.JWTAuth)
}

func (m *Manager) DecodeActivationToken(_ context.Context, tokenString string) (*models.ActivationToken, error) {
	token, err := m.JWTAuth.Decode(tokenString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode a token")
	}
	if token == nil || !token.Valid {
		return nil, errors.New("invalid token provided")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected token claims format")
	}
	return models.ActivationTokenFromClaims(claims)
}

func Authenticator(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		token, _, err := jwtauth.FromContext(r.Context())

		if err != nil {
			web.RenderError(w, r, response.NewError(response.CodeUnauthorized, err.Error()))
			return
		}

		if token == nil || !token.Valid {
			web.RenderError(
				w, r, response.NewError(response.CodeUnauthorized, http.StatusText(http.StatusUnauthorized)),
			)
			return
		}

		// token is authenticated, pass it through
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}
