package session

import (
	"context"

	"derisk/app/models"
	"derisk/pkg/starknet"
)

type Service interface {
	// Connect obtains an authorized wallet, prompting the user per policy.
	Connect(ctx context.Context, policy models.PromptPolicy) (*models.WalletHandle, error)
	// GetSession recovers an existing session without necessarily prompting.
	// A nil handle with a nil error means no session is recoverable.
	GetSession(ctx context.Context) (*models.WalletHandle, error)
	// Disconnect revokes the local session. Local cleanup always happens;
	// a returned error is a provider-side revoke failure to warn about.
	Disconnect(ctx context.Context) error
	// LastKnownAddress is the persisted address hint, unverified.
	LastKnownAddress() string
}

// Wallet is the capability surface a provider exposes after it accepted a
// connection request.
type Wallet interface {
	Enable(ctx context.Context) error
	IsConnected() bool
	SelectedAddress() string
	Provider() starknet.Provider
}

// Connector abstracts one wallet extension.
type Connector interface {
	ID() string
	Available(ctx context.Context) bool
	Connect(ctx context.Context, policy models.PromptPolicy) (Wallet, error)
	// Current returns an already-authorized wallet without prompting,
	// or nil when there is none.
	Current(ctx context.Context) (Wallet, error)
	Disconnect(ctx context.Context) error
}

// SessionStore keeps the advisory reconnection hint. Injected so tests can
// use a double and callers decide where hints live.
type SessionStore interface {
	Get() (*models.PersistedSession, error)
	Set(session *models.PersistedSession) error
	Clear() error
}
