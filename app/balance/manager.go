package balance

import (
	"context"
	"math/big"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"derisk/app/models"
	"derisk/pkg/starknet"
)

const (
	entrypointBalanceOf = "balanceOf"

	// display precision accepted by design; digits past it are dropped
	displayDecimals = 4
)

type Manager struct {
	Tokens []Token
}

func NewManager(tokens []Token) *Manager {
	if len(tokens) == 0 {
		tokens = DefaultTokens()
	}
	return &Manager{Tokens: tokens}
}

func (m *Manager) GetBalances(ctx context.Context, wallet *models.WalletHandle, address string) (*models.BalanceSnapshot, error) {
	if wallet == nil || wallet.Provider == nil {
		return nil, ErrProviderUnavailable
	}

	chainID, err := wallet.Provider.ChainID(ctx)
	if err != nil {
		return nil, errors.WithMessagef(ErrCallFailed, "failed to detect a network: %v", err)
	}
	network := networkFromChainID(chainID)

	snapshot := &models.BalanceSnapshot{
		Address:  address,
		Network:  network,
		Balances: make(map[string]string, len(m.Tokens)),
	}

	for _, token := range m.Tokens {
		contract := token.Addresses[network]
		if contract == "" { // no deployment on this network
			continue
		}

		result, err := wallet.Provider.CallContract(ctx, starknet.Call{
			ContractAddress: contract,
			Entrypoint:      entrypointBalanceOf,
			Calldata:        []string{address},
		})
		if err != nil {
			if starknet.IsContractNotFound(err) {
				return nil, &ContractNotFoundError{Token: token.Symbol, Network: network}
			}
			return nil, errors.WithMessagef(ErrCallFailed, "%s balance: %v", token.Symbol, err)
		}

		formatted, err := formatUnits(result, token.Decimals)
		if err != nil {
			return nil, errors.WithMessagef(ErrCallFailed, "%s balance: %v", token.Symbol, err)
		}
		snapshot.Balances[token.Symbol] = formatted
	}

	return snapshot, nil
}

func networkFromChainID(chainID string) string {
	if chainID == starknet.ChainIDMainnet {
		return models.NetworkMainnet
	}
	return models.NetworkSepolia
}

// formatUnits converts a uint256 call result (low felt, optional high felt)
// to a decimal string with a fixed number of fractional digits, truncated.
func formatUnits(result []string, decimals uint8) (string, error) {
	if len(result) == 0 {
		return "", errors.New("empty call result")
	}

	low, err := starknet.ParseFelt(result[0])
	if err != nil {
		return "", err
	}

	value := low
	if len(result) > 1 {
		high, err := starknet.ParseFelt(result[1])
		if err != nil {
			return "", err
		}
		value = new(big.Int).Add(low, new(big.Int).Lsh(high, 128))
	}

	amount := decimal.NewFromBigInt(value, -int32(decimals))
	return amount.Truncate(displayDecimals).StringFixed(displayDecimals), nil
}
