package history

import (
	"context"

	"github.com/pkg/errors"

	"derisk/app/models"
	"derisk/app/storage/database"
	"derisk/pkg/log"
)

// Manager serves trade history out of the database. Trades are pushed in by
// the data pipeline through RecordTrades.
type Manager struct {
	DB database.Database
}

func (m *Manager) TradeHistory(ctx context.Context, walletID string) ([]*models.TradeRecord, error) {
	log.AddFields(ctx, "wallet", walletID)

	if walletID == "" {
		return nil, errors.New("empty wallet id provided")
	}

	dbTrades, err := m.DB.TradeHistory(ctx, walletID)
	if err != nil {
		return nil, err
	}

	result := make([]*models.TradeRecord, 0, len(dbTrades))
	for _, t := range dbTrades {
		result = append(result, t.ToPublic())
	}
	return result, nil
}

func (m *Manager) RecordTrades(ctx context.Context, walletID string, records []*models.TradeRecord) error {
	log.AddFields(ctx, "wallet", walletID, "trades", len(records))

	if walletID == "" {
		return errors.New("empty wallet id provided")
	}

	trades := make([]*database.NewTrade, 0, len(records))
	for _, r := range records {
		trade, err := database.NewTradeFromPublic(walletID, r)
		if err != nil {
			return errors.Wrapf(err, "invalid trade record for %s", r.Token)
		}
		trades = append(trades, trade)
	}

	return m.DB.SaveTrades(ctx, trades)
}
