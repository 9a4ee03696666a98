package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"derisk/app/config"
	"derisk/app/models"
	"derisk/pkg/starknet"
)

// RPCConnector adapts a starknet node endpoint plus a configured account to
// the Connector surface, standing in for a browser wallet extension in
// headless runs. Authorization is modelled by the account address being
// configured: without one the connector behaves like a declined request.
type RPCConnector struct {
	Provider config.WalletProvider

	mu      sync.Mutex
	current *rpcWallet
}

func NewRPCConnectors(providers []config.WalletProvider) []Connector {
	result := make([]Connector, 0, len(providers))
	for _, p := range providers {
		result = append(result, &RPCConnector{Provider: p})
	}
	return result
}

func (c *RPCConnector) ID() string {
	return c.Provider.ID
}

func (c *RPCConnector) Available(ctx context.Context) bool {
	return c.Provider.NodeUrl != ""
}

func (c *RPCConnector) Connect(ctx context.Context, policy models.PromptPolicy) (Wallet, error) {
	if c.Provider.AccountAddress == "" {
		return nil, errors.Wrapf(ErrConnectionDenied, "no account configured for provider %s", c.Provider.ID)
	}

	client, err := starknet.Dial(c.Provider.NodeUrl)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reach provider %s", c.Provider.ID)
	}

	wallet := &rpcWallet{
		address: c.Provider.AccountAddress,
		client:  client,
	}

	c.mu.Lock()
	c.current = wallet
	c.mu.Unlock()

	return wallet, nil
}

func (c *RPCConnector) Current(ctx context.Context) (Wallet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil, nil
	}
	return c.current, nil
}

func (c *RPCConnector) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.client.Close()
		c.current = nil
	}
	return nil
}

type rpcWallet struct {
	address   string
	client    *starknet.Client
	connected bool
}

func (w *rpcWallet) Enable(ctx context.Context) error {
	// a reachable chain is the closest thing to an enabled extension here
	if _, err := w.client.ChainID(ctx); err != nil {
		return err
	}
	w.connected = true
	return nil
}

func (w *rpcWallet) IsConnected() bool {
	return w.connected
}

func (w *rpcWallet) SelectedAddress() string {
	return w.address
}

func (w *rpcWallet) Provider() starknet.Provider {
	return w.client
}
