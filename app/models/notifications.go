package models

import (
	"net/http"
)

type NewSubscriber struct {
	ClientID       string `json:"client_id"`
	ResponseWriter http.ResponseWriter
	Request        *http.Request
}

type Notification struct {
	ClientID string      `json:"client_id"`
	Message  interface{} `json:"message"`
}

// LiquidationAlert is pushed when a watched position's health ratio drops
// to or below the subscribed threshold.
type LiquidationAlert struct {
	WalletID         string  `json:"wallet_id"`
	ProtocolID       string  `json:"protocol_id"`
	HealthRatio      float64 `json:"health_ratio"`
	HealthRatioLevel float64 `json:"health_ratio_level"`
}
