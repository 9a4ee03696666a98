package database

import (
	"database/sql"
	"time"

	"derisk/app/models"
)

type Base struct {
	ID        string       `db:"id"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at"`
	DeletedAt sql.NullTime `db:"deleted_at"`
}

type NewSubscription struct {
	WalletID         string  `db:"wallet_id"`
	HealthRatioLevel float64 `db:"health_ratio_level"`
	ProtocolID       string  `db:"protocol_id"`
	TelegramID       string  `db:"telegram_id"`
}

type Subscription struct {
	Base
	NewSubscription
	Active     bool         `db:"active"`
	NotifiedAt sql.NullTime `db:"notified_at"`
}

func NewSubscriptionFromPublic(req *models.SubscriptionRequest) *NewSubscription {
	return &NewSubscription{
		WalletID:         req.WalletID,
		HealthRatioLevel: req.HealthRatioLevel,
		ProtocolID:       req.ProtocolID,
		TelegramID:       req.TelegramID,
	}
}

type NewTrade struct {
	WalletID string    `db:"wallet_id"`
	Token    string    `db:"token"`
	Time     time.Time `db:"time"`
	Amount   float64   `db:"amount"`
	IsSell   bool      `db:"is_sell"`
}

type Trade struct {
	Base
	NewTrade
}

func (t *Trade) ToPublic() *models.TradeRecord {
	return &models.TradeRecord{
		Token:     t.Token,
		Timestamp: t.Time.UTC().Format(time.RFC3339),
		Amount:    t.Amount,
		IsSell:    t.IsSell,
	}
}

func NewTradeFromPublic(walletID string, record *models.TradeRecord) (*NewTrade, error) {
	at, err := time.Parse(time.RFC3339, record.Timestamp)
	if err != nil {
		return nil, err
	}
	return &NewTrade{
		WalletID: walletID,
		Token:    record.Token,
		Time:     at,
		Amount:   record.Amount,
		IsSell:   record.IsSell,
	}, nil
}
