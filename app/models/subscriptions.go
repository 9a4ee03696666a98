package models

import (
	"github.com/pkg/errors"

	"derisk/pkg/crypto"
)

const (
	MessageTypeSuccess = "success"
	MessageTypeError   = "error"

	// health ratio of 10 is already far above any liquidation level
	healthRatioLevelMax = 10
)

// SubscriptionRequest is the liquidation-watcher form payload.
type SubscriptionRequest struct {
	WalletID         string  `json:"wallet_id"`
	HealthRatioLevel float64 `json:"health_ratio_level"`
	ProtocolID       string  `json:"protocol_id"`
	TelegramID       string  `json:"telegram_id,omitempty"`
	Signature        string  `json:"-"` // provided in a header
}

func (s *SubscriptionRequest) Validate(protocolIDs []string, apiSecret string) error {
	if s.WalletID == "" {
		return errors.New("empty wallet id provided")
	}

	if s.HealthRatioLevel <= 0 || s.HealthRatioLevel > healthRatioLevelMax {
		return errors.Errorf("health ratio level must be above 0 and at most %d", healthRatioLevelMax)
	}

	known := false
	for _, id := range protocolIDs {
		if id == s.ProtocolID {
			known = true
			break
		}
	}
	if !known {
		return errors.Errorf("unknown protocol id: %q", s.ProtocolID)
	}

	if apiSecret != "" && crypto.GetSHA256(s.WalletID, apiSecret) != s.Signature {
		return errors.New("invalid signature provided")
	}

	return nil
}

// WatcherResponse is what the subscription form renders: the server's
// messages verbatim, plus an activation link on success.
type WatcherResponse struct {
	Messages       []string `json:"messages"`
	MessageType    string   `json:"message_type"`
	ActivationLink string   `json:"activation_link,omitempty"`
}

func (r *WatcherResponse) Succeeded() bool {
	return r.MessageType == MessageTypeSuccess
}

type ProtocolIDs struct {
	ProtocolIDs []string `json:"protocol_ids"`
}
