package session

import (
	"time"

	"derisk/app/models"
	"derisk/pkg/retry"
)

const (
	ProviderArgentX = "argentX"
	ProviderBraavos = "braavos"

	delayedInitInterval = 500 * time.Millisecond
	delayedInitAttempts = 2
)

// ReconnectStrategy describes how a particular provider is best reconnected.
// Extensions do not behave uniformly: some honor a true silent mode, others
// only respond after their own asynchronous init and need a delayed retry
// under a relaxed prompt policy.
type ReconnectStrategy struct {
	TrySilent     bool
	TryDelayed    bool
	DelayedPolicy models.PromptPolicy
	Retry         retry.Policy
}

// DefaultStrategies is the strategy table for the supported providers.
// Unknown provider ids fall back to a plain silent attempt.
func DefaultStrategies() map[string]ReconnectStrategy {
	return map[string]ReconnectStrategy{
		ProviderArgentX: {
			TrySilent: true,
		},
		ProviderBraavos: {
			TrySilent:     true,
			TryDelayed:    true,
			DelayedPolicy: models.PromptIfNeeded,
			Retry: retry.Policy{
				Attempts: delayedInitAttempts,
				Delay:    delayedInitInterval,
			},
		},
	}
}

func fallbackStrategy() ReconnectStrategy {
	return ReconnectStrategy{TrySilent: true}
}
