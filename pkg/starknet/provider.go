package starknet

import (
	"context"
)

// Call describes a read-only invocation of a contract entrypoint.
type Call struct {
	ContractAddress string
	Entrypoint      string
	Calldata        []string
}

// Provider is the read surface a connected wallet exposes.
type Provider interface {
	ChainID(ctx context.Context) (string, error)
	CallContract(ctx context.Context, call Call) ([]string, error)
}
