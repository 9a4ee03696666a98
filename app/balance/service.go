package balance

import (
	"context"

	"derisk/app/models"
)

type Service interface {
	// GetBalances reads the configured token balances of address through the
	// wallet's provider. Pure read: the snapshot is tagged with the address
	// the fetch was issued for so stale results can be discarded.
	GetBalances(ctx context.Context, wallet *models.WalletHandle, address string) (*models.BalanceSnapshot, error)
}
