package balance

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"derisk/app/models"
	"derisk/pkg/starknet"
)

type fakeProvider struct {
	chainID    string
	chainErr   error
	balances   map[string][]string // contract address -> call result
	callErr    error
	calledWith []starknet.Call
}

func (p *fakeProvider) ChainID(context.Context) (string, error) {
	return p.chainID, p.chainErr
}

func (p *fakeProvider) CallContract(_ context.Context, call starknet.Call) ([]string, error) {
	p.calledWith = append(p.calledWith, call)
	if p.callErr != nil {
		return nil, p.callErr
	}
	result, ok := p.balances[call.ContractAddress]
	if !ok {
		return nil, errors.New("Contract not found")
	}
	return result, nil
}

func handleWith(provider starknet.Provider) *models.WalletHandle {
	return &models.WalletHandle{
		SelectedAddress: "0xabc",
		ProviderID:      "argentX",
		IsConnected:     true,
		Provider:        provider,
	}
}

func testTokens() []Token {
	return []Token{
		{Symbol: "ETH", Decimals: 18, Addresses: map[string]string{
			models.NetworkMainnet: "0xeth",
			models.NetworkSepolia: "0xeth",
		}},
		{Symbol: "USDC", Decimals: 6, Addresses: map[string]string{
			models.NetworkMainnet: "0xusdc",
		}},
	}
}

func TestGetBalancesMainnet(t *testing.T) {
	provider := &fakeProvider{
		chainID: starknet.ChainIDMainnet,
		balances: map[string][]string{
			"0xeth":  {"0x112209c76de80000"}, // 1234560000000000000
			"0xusdc": {"0x112a880"},          // 18000000
		},
	}

	m := NewManager(testTokens())
	snapshot, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.NoError(t, err)
	require.Equal(t, models.NetworkMainnet, snapshot.Network)
	require.Equal(t, "0xabc", snapshot.Address)
	require.Equal(t, map[string]string{
		"ETH":  "1.2345", // truncated, not rounded
		"USDC": "18.0000",
	}, snapshot.Balances)

	// fetches are parameterized by the address, not by handle state
	for _, call := range provider.calledWith {
		require.Equal(t, []string{"0xabc"}, call.Calldata)
	}
}

func TestGetBalancesSkipsMissingDeployments(t *testing.T) {
	provider := &fakeProvider{
		chainID: "0x534e5f5345504f4c4941", // SN_SEPOLIA
		balances: map[string][]string{
			"0xeth": {"0xde0b6b3a7640000"}, // 1 ETH
		},
	}

	m := NewManager(testTokens())
	snapshot, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.NoError(t, err)
	require.Equal(t, models.NetworkSepolia, snapshot.Network)
	require.Equal(t, map[string]string{"ETH": "1.0000"}, snapshot.Balances)
}

func TestGetBalancesUnknownChainIsTestnet(t *testing.T) {
	provider := &fakeProvider{chainID: "0xdeadbeef", balances: map[string][]string{
		"0xeth": {"0x0"},
	}}

	m := NewManager(testTokens())
	snapshot, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.NoError(t, err)
	require.Equal(t, models.NetworkSepolia, snapshot.Network)
}

func TestGetBalancesProviderUnavailable(t *testing.T) {
	m := NewManager(nil)

	_, err := m.GetBalances(context.Background(), nil, "0xabc")
	require.ErrorIs(t, err, ErrProviderUnavailable)

	_, err = m.GetBalances(context.Background(), &models.WalletHandle{}, "0xabc")
	require.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestGetBalancesContractNotFound(t *testing.T) {
	provider := &fakeProvider{chainID: starknet.ChainIDMainnet, balances: map[string][]string{}}

	m := NewManager(testTokens())
	_, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.True(t, IsContractNotFound(err))
	require.Contains(t, err.Error(), "ETH")
	require.Contains(t, err.Error(), models.NetworkMainnet)
}

func TestGetBalancesCallFailed(t *testing.T) {
	provider := &fakeProvider{
		chainID: starknet.ChainIDMainnet,
		callErr: errors.New("rpc timeout"),
	}

	m := NewManager(testTokens())
	_, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.ErrorIs(t, err, ErrCallFailed)
	require.False(t, IsContractNotFound(err))
}

func TestGetBalancesIdempotent(t *testing.T) {
	provider := &fakeProvider{
		chainID: starknet.ChainIDMainnet,
		balances: map[string][]string{
			"0xeth":  {"0x112209c76de80000"},
			"0xusdc": {"0x0"},
		},
	}

	m := NewManager(testTokens())
	first, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.NoError(t, err)
	second, err := m.GetBalances(context.Background(), handleWith(provider), "0xabc")
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		result   []string
		decimals uint8
		want     string
	}{
		{"truncates beyond four digits", []string{"0x112209c76de80000"}, 18, "1.2345"},
		{"pads to four digits", []string{"0xde0b6b3a7640000"}, 18, "1.0000"},
		{"zero", []string{"0x0"}, 18, "0.0000"},
		{"six decimals", []string{"0x112a880"}, 6, "18.0000"},
		{"uint256 high part", []string{"0x0", "0x1"}, 18, "340282366920938463463.3746"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatUnits(tt.result, tt.decimals)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	_, err := formatUnits(nil, 18)
	require.Error(t, err)

	_, err = formatUnits([]string{"bogus"}, 18)
	require.Error(t, err)
}
