package notifier

import (
	"context"

	"derisk/app/models"
)

type Service interface {
	Subscribe(ctx context.Context, subscriber *models.NewSubscriber) error
	Notify(ctx context.Context, notification *models.Notification)
}
