package models

const (
	NetworkMainnet = "mainnet"
	NetworkSepolia = "sepolia"
)

// BalanceSnapshot is a point-in-time view of token balances for one address.
// Address is the address the fetch was issued for, so callers can discard
// results that no longer match the active account.
type BalanceSnapshot struct {
	Address  string            `json:"address"`
	Network  string            `json:"network"`
	Balances map[string]string `json:"balances"`
}
