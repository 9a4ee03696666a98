package balance

import (
	"derisk/app/models"
)

// Token describes one watched ERC-20 contract per network. An empty address
// means the token has no deployment there and is skipped.
type Token struct {
	Symbol    string
	Decimals  uint8
	Addresses map[string]string
}

// DefaultTokens is the watched token set of the dashboard.
func DefaultTokens() []Token {
	return []Token{
		{
			Symbol:   "ETH",
			Decimals: 18,
			Addresses: map[string]string{
				models.NetworkMainnet: "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
				models.NetworkSepolia: "0x049d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7",
			},
		},
		{
			Symbol:   "USDC",
			Decimals: 6,
			Addresses: map[string]string{
				models.NetworkMainnet: "0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8",
			},
		},
		{
			Symbol:   "STRK",
			Decimals: 18,
			Addresses: map[string]string{
				models.NetworkMainnet: "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d",
				models.NetworkSepolia: "0x04718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d",
			},
		},
	}
}
