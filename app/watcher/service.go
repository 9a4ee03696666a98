package watcher

import (
	"context"

	"derisk/app/models"
)

type Service interface {
	ProtocolIDs(ctx context.Context) *models.ProtocolIDs
	Subscribe(ctx context.Context, request *models.SubscriptionRequest) (*models.WatcherResponse, error)
	Activate(ctx context.Context, tokenString, telegramID string) error
	CheckAlerts(ctx context.Context) error
}
