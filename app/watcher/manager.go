package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"derisk/app/auth"
	"derisk/app/config"
	"derisk/app/models"
	"derisk/app/notifier"
	"derisk/app/storage/database"
	"derisk/pkg/log"
	"derisk/pkg/retry"
)

const (
	subscriptionCreatedMessage = "Subscription created successfully"

	// the risk engine occasionally times out under load, give it one more try
	healthRetryAttempts = 2
	healthRetryDelay    = 10 * time.Second
)

// Manager runs the liquidation watcher: it takes subscriptions, activates
// them through telegram deep links and raises alerts when a watched position
// drops below its threshold.
type Manager struct {
	DB       database.Database
	Auth     auth.Service
	Notifier notifier.Service
	Health   HealthSource
	Config   config.Watcher

	// APISecret verifies request signatures, empty disables the check
	APISecret string
	Clock     retry.Clock
}

func (m *Manager) ProtocolIDs(_ context.Context) *models.ProtocolIDs {
	return &models.ProtocolIDs{ProtocolIDs: m.Config.ProtocolIDs}
}

func (m *Manager) Subscribe(ctx context.Context, request *models.SubscriptionRequest) (*models.WatcherResponse, error) {
	log.AddFields(ctx, "wallet", request.WalletID, "protocol", request.ProtocolID)

	if err := request.Validate(m.Config.ProtocolIDs, m.APISecret); err != nil {
		return nil, err
	}

	subscription, err := m.DB.CreateSubscription(ctx, database.NewSubscriptionFromPublic(request))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create a subscription")
	}

	token, err := m.Auth.IssueActivationToken(ctx, request.WalletID, subscription.ID)
	if err != nil {
		return nil, err
	}

	return &models.WatcherResponse{
		Messages:       []string{subscriptionCreatedMessage},
		MessageType:    models.MessageTypeSuccess,
		ActivationLink: fmt.Sprintf("https://t.me/%s?start=%s", m.Config.TelegramBot, token),
	}, nil
}

func (m *Manager) Activate(ctx context.Context, tokenString, telegramID string) error {
	token, err := m.Auth.DecodeActivationToken(ctx, tokenString)
	if err != nil {
		return err
	}
	log.AddFields(ctx, "wallet", token.Wallet, "subscription", token.SubscriptionID)

	return m.DB.ActivateSubscription(ctx, token.SubscriptionID, telegramID)
}

// CheckAlerts walks the active subscriptions once and notifies every wallet
// whose health ratio is at or below its subscribed level. Called on a ticker
// by the server.
func (m *Manager) CheckAlerts(ctx context.Context) error {
	subscriptions, err := m.DB.ActiveSubscriptions(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load active subscriptions")
	}

	clock := m.Clock
	if clock == nil {
		clock = retry.RealClock()
	}
	now := clock.Now()

	for _, sub := range subscriptions {
		if sub.NotifiedAt.Valid && now.Sub(sub.NotifiedAt.Time) < m.Config.NotifyCooldown {
			continue
		}

		ratio, err := m.fetchHealthRatio(ctx, sub.WalletID, sub.ProtocolID, clock)
		if err != nil {
			log.Warnw("failed to fetch a health ratio",
				"wallet", sub.WalletID, "protocol", sub.ProtocolID, "error", err.Error())
			continue
		}

		if ratio > sub.HealthRatioLevel {
			continue
		}

		m.Notifier.Notify(ctx, &models.Notification{
			ClientID: sub.WalletID,
			Message: &models.LiquidationAlert{
				WalletID:         sub.WalletID,
				ProtocolID:       sub.ProtocolID,
				HealthRatio:      ratio,
				HealthRatioLevel: sub.HealthRatioLevel,
			},
		})

		if err := m.DB.MarkNotified(ctx, sub.ID, now); err != nil {
			log.Errorw("failed to mark a subscription notified", "subscription", sub.ID, "error", err.Error())
		}
	}
	return nil
}

func (m *Manager) fetchHealthRatio(ctx context.Context, walletID, protocolID string, clock retry.Clock) (float64, error) {
	var ratio float64
	policy := retry.Policy{Attempts: healthRetryAttempts, Delay: healthRetryDelay, Clock: clock}
	err := policy.Do(ctx, func(ctx context.Context) error {
		var err error
		ratio, err = m.Health.HealthRatio(ctx, walletID, protocolID)
		return err
	})
	return ratio, err
}
