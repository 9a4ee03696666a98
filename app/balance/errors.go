package balance

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrProviderUnavailable means the wallet handle has no usable provider.
	ErrProviderUnavailable = errors.New("wallet has no usable provider")
	// ErrCallFailed covers any other contract-call error; usually transient,
	// callers may retry with backoff.
	ErrCallFailed = errors.New("contract call failed")
)

// ContractNotFoundError means a token contract does not exist on the
// detected network, a configuration or network-mismatch problem rather than
// a transient fault.
type ContractNotFoundError struct {
	Token   string
	Network string
}

func (e *ContractNotFoundError) Error() string {
	return fmt.Sprintf("%s contract not found on %s", e.Token, e.Network)
}

func IsContractNotFound(err error) bool {
	var notFound *ContractNotFoundError
	return errors.As(err, &notFound)
}
