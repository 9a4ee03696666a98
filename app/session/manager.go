package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"derisk/app/models"
	"derisk/pkg/log"
	"derisk/pkg/retry"
)

const defaultConnectTimeout = 2 * time.Second

type Manager struct {
	Connectors []Connector
	Store      SessionStore
	Strategies map[string]ReconnectStrategy
	Clock      retry.Clock
	// ConnectTimeout bounds every connect and reconnect attempt so the
	// caller is never stuck waiting on an extension that never responds.
	ConnectTimeout time.Duration
}

func (m *Manager) Connect(ctx context.Context, policy models.PromptPolicy) (*models.WalletHandle, error) {
	ctx, cancel := m.boundWait(ctx)
	defer cancel()

	candidates := m.candidates()
	var available []Connector
	for _, c := range candidates {
		if c.Available(ctx) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return nil, ErrNoProviderAvailable
	}

	var lastErr error
	for _, connector := range available {
		handle, err := m.connectWith(ctx, connector, policy)
		if err == nil {
			return handle, nil
		}
		if errors.Is(err, ErrConnectionDenied) || errors.Is(err, ErrEnableFailed) {
			// the user or the provider made a decision, do not shop around
			return nil, err
		}
		lastErr = err
	}
	return nil, errors.Wrap(lastErr, "all wallet providers failed")
}

func (m *Manager) GetSession(ctx context.Context) (*models.WalletHandle, error) {
	ctx, cancel := m.boundWait(ctx)
	defer cancel()

	// a live, already-authorized connection beats any persisted hint
	for _, connector := range m.Connectors {
		if !connector.Available(ctx) {
			continue
		}
		wallet, err := connector.Current(ctx)
		if err != nil {
			log.Debugw("failed to query a current wallet", "provider", connector.ID(), "error", err.Error())
			continue
		}
		if wallet != nil && wallet.IsConnected() {
			handle := m.adopt(connector.ID(), wallet)
			return handle, nil
		}
	}

	persisted := m.persistedHint()
	if persisted == nil || persisted.ProviderID == "" {
		return nil, nil
	}

	connector := m.connectorByID(persisted.ProviderID)
	if connector == nil || !connector.Available(ctx) {
		return nil, nil
	}

	strategy, ok := m.strategies()[connector.ID()]
	if !ok {
		strategy = fallbackStrategy()
	}

	if strategy.TrySilent {
		handle, err := m.connectWith(ctx, connector, models.PromptSilent)
		if err == nil {
			return handle, nil
		}
		log.Debugw("silent reconnect failed", "provider", connector.ID(), "error", err.Error())
	}

	if strategy.TryDelayed {
		policy := strategy.Retry
		policy.Clock = m.Clock

		var handle *models.WalletHandle
		err := policy.Do(ctx, func(ctx context.Context) error {
			var attemptErr error
			handle, attemptErr = m.connectWith(ctx, connector, strategy.DelayedPolicy)
			return attemptErr
		})
		if err == nil {
			return handle, nil
		}
		log.Debugw("delayed reconnect failed", "provider", connector.ID(), "error", err.Error())
	}

	// absence of a session is an expected outcome, not a fault
	return nil, nil
}

func (m *Manager) Disconnect(ctx context.Context) error {
	var revokeErr error
	for _, connector := range m.Connectors {
		if err := connector.Disconnect(ctx); err != nil {
			revokeErr = multierr.Append(revokeErr, errors.Wrapf(err, "provider %s", connector.ID()))
		}
	}

	if err := m.Store.Clear(); err != nil {
		log.Warnw("failed to clear a persisted session", "error", err.Error())
	}

	return errors.Wrap(revokeErr, "provider-side revoke failed")
}

func (m *Manager) LastKnownAddress() string {
	if persisted := m.persistedHint(); persisted != nil {
		return persisted.Address
	}
	return ""
}

func (m *Manager) connectWith(ctx context.Context, connector Connector, policy models.PromptPolicy) (*models.WalletHandle, error) {
	wallet, err := connector.Connect(ctx, policy)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, ErrNoProviderAvailable
	}

	if err := wallet.Enable(ctx); err != nil {
		return nil, errors.Wrapf(ErrEnableFailed, "provider %s: %v", connector.ID(), err)
	}
	if !wallet.IsConnected() {
		return nil, errors.Wrapf(ErrEnableFailed, "provider %s reports not connected after enable", connector.ID())
	}

	return m.adopt(connector.ID(), wallet), nil
}

// adopt turns an enabled wallet into a handle and persists the hint.
func (m *Manager) adopt(providerID string, wallet Wallet) *models.WalletHandle {
	handle := &models.WalletHandle{
		SelectedAddress: wallet.SelectedAddress(),
		ProviderID:      providerID,
		IsConnected:     true,
		Provider:        wallet.Provider(),
	}

	err := m.Store.Set(&models.PersistedSession{
		ProviderID: providerID,
		Address:    handle.SelectedAddress,
	})
	if err != nil { // a lost hint only costs the next reconnect
		log.Warnw("failed to persist a session hint", "error", err.Error())
	}

	return handle
}

// candidates narrows connectors to the last used provider when one is known.
func (m *Manager) candidates() []Connector {
	persisted := m.persistedHint()
	if persisted != nil && persisted.ProviderID != "" {
		if connector := m.connectorByID(persisted.ProviderID); connector != nil {
			return []Connector{connector}
		}
	}
	return m.Connectors
}

func (m *Manager) connectorByID(id string) Connector {
	for _, c := range m.Connectors {
		if c.ID() == id {
			return c
		}
	}
	return nil
}

func (m *Manager) persistedHint() *models.PersistedSession {
	persisted, err := m.Store.Get()
	if err != nil {
		log.Debugw("failed to read a persisted session", "error", err.Error())
		return nil
	}
	return persisted
}

func (m *Manager) strategies() map[string]ReconnectStrategy {
	if m.Strategies != nil {
		return m.Strategies
	}
	return DefaultStrategies()
}

func (m *Manager) boundWait(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := m.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultConnectTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
