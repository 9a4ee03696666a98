package database

import (
	"context"
	"time"
)

type Database interface {
	CreateSubscription(ctx context.Context, subscription *NewSubscription) (*Subscription, error)
	ActivateSubscription(ctx context.Context, id, telegramID string) error
	ActiveSubscriptions(ctx context.Context) ([]*Subscription, error)
	MarkNotified(ctx context.Context, id string, at time.Time) error
	TradeHistory(ctx context.Context, walletID string) ([]*Trade, error)
	SaveTrades(ctx context.Context, trades []*NewTrade) error
	Close() error
}
