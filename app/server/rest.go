package server

import (
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"

	"derisk/app/auth"
	"derisk/app/history"
	"derisk/app/models"
	"derisk/app/notifier"
	"derisk/app/watcher"
	"derisk/pkg/crypto"
	"derisk/pkg/response"
	"derisk/pkg/web"
)

const (
	apiPrefix       = "/api"
	signatureHeader = "x-signature"
)

// Rest is a gateway for incoming HTTP requests
type Rest struct {
	Router   chi.Router
	History  history.Service
	Watcher  watcher.Service
	Notifier notifier.Service
	Auth     auth.Service

	// APISecret verifies trade-push signatures, empty disables the check
	APISecret string
}

func (s *Rest) Route() {
	s.Router.Route(apiPrefix, func(r chi.Router) {
		// public routes
		r.Get("/protocol-ids", s.protocolIDs)
		r.Get("/history", s.tradeHistory)

		r.Post("/liquidation-watcher", s.createWatcher)
		r.Get("/liquidation-watcher/activate", s.activateWatcher)

		// semi-public routes (signature required)
		r.Post("/history", s.recordTrades)

		// private routes
		r.Group(func(r chi.Router) {
			r.Use(s.Auth.GetJWTVerifier(), s.Auth.GetJWTAuthenticator())

			r.Get("/subscribe", s.subscribe)
		})
	})
}

func (s *Rest) protocolIDs(w http.ResponseWriter, r *http.Request) {
	web.RenderResult(w, r, s.Watcher.ProtocolIDs(r.Context()))
}

func (s *Rest) tradeHistory(w http.ResponseWriter, r *http.Request) {
	walletID := r.URL.Query().Get("wallet_id")

	out, err := s.History.TradeHistory(r.Context(), walletID)
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, out)
}

func (s *Rest) recordTrades(w http.ResponseWriter, r *http.Request) {
	in := new(models.NewTrades)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}
	in.Signature = r.Header.Get(signatureHeader)

	if s.APISecret != "" && crypto.GetSHA256(in.WalletID, s.APISecret) != in.Signature {
		web.RenderError(w, r, response.NewError(response.CodeUnauthorized, "invalid signature provided"))
		return
	}

	if err := s.History.RecordTrades(r.Context(), in.WalletID, in.Trades); err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, &models.WatcherResponse{
		Messages:    []string{"Trades recorded successfully"},
		MessageType: models.MessageTypeSuccess,
	})
}

func (s *Rest) createWatcher(w http.ResponseWriter, r *http.Request) {
	in := new(models.SubscriptionRequest)
	if err := render.DecodeJSON(r.Body, in); err != nil {
		web.RenderError(w, r, err)
		return
	}
	in.Signature = r.Header.Get(signatureHeader)

	out, err := s.Watcher.Subscribe(r.Context(), in)
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, out)
}

func (s *Rest) activateWatcher(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	telegramID := r.URL.Query().Get("telegram_id")

	if err := s.Watcher.Activate(r.Context(), token, telegramID); err != nil {
		web.RenderError(w, r, err)
		return
	}

	web.RenderResult(w, r, &models.WatcherResponse{
		Messages:    []string{"Subscription activated successfully"},
		MessageType: models.MessageTypeSuccess,
	})
}

func (s *Rest) subscribe(w http.ResponseWriter, r *http.Request) {
	activationToken, err := models.ActivationTokenFromContext(r.Context())
	if err != nil {
		web.RenderError(w, r, err)
		return
	}

	if err := s.Notifier.Subscribe(r.Context(), &models.NewSubscriber{
		ClientID:       activationToken.Wallet,
		ResponseWriter: w,
		Request:        r,
	}); err != nil {
		web.RenderError(w, r, err)
		return
	}
}
