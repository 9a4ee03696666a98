package dashclient

import (
	"context"

	"derisk/app/models"
)

type Service interface {
	ProtocolIDs(ctx context.Context) ([]string, error)
	History(ctx context.Context, walletID string) ([]*models.TradeRecord, error)
	CreateWatcher(ctx context.Context, request *models.SubscriptionRequest) (*models.WatcherResponse, error)
}
