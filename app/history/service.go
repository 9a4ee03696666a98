package history

import (
	"context"

	"derisk/app/models"
)

type Service interface {
	TradeHistory(ctx context.Context, walletID string) ([]*models.TradeRecord, error)
	RecordTrades(ctx context.Context, walletID string, records []*models.TradeRecord) error
}
