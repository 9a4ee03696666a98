package models

import (
	"derisk/pkg/starknet"
)

// PromptPolicy configures whether the wallet extension may show its own
// user-facing connection dialog.
type PromptPolicy string

const (
	// PromptAlways forces the chooser dialog even for an authorized wallet.
	PromptAlways PromptPolicy = "alwaysAsk"
	// PromptSilent forbids any dialog; the attempt fails silently instead.
	PromptSilent PromptPolicy = "neverAsk"
	// PromptIfNeeded shows the dialog only when no authorization exists yet.
	PromptIfNeeded PromptPolicy = "canAsk"
)

// WalletHandle is a capability representing an authorized connection to a
// wallet provider. It is only ever produced by a successful connect or
// reconnect, so IsConnected is true for as long as the handle is held; a
// provider-side revoke is detected lazily on the next call.
type WalletHandle struct {
	SelectedAddress string
	ProviderID      string
	IsConnected     bool
	Provider        starknet.Provider
}

// PersistedSession is the locally stored reconnection hint. It is advisory
// only: the live provider query stays the source of truth.
type PersistedSession struct {
	ProviderID string `json:"provider_id"`
	Address    string `json:"address"`
}
