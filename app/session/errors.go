package session

import (
	"github.com/pkg/errors"
)

var (
	// ErrConnectionDenied means the user rejected the connection request.
	ErrConnectionDenied = errors.New("wallet connection denied by the user")
	// ErrNoProviderAvailable means no compatible wallet extension responded.
	ErrNoProviderAvailable = errors.New("no compatible wallet provider available")
	// ErrEnableFailed means the provider accepted the connector but refused
	// to enable full access.
	ErrEnableFailed = errors.New("wallet refused to enable full access")
)
