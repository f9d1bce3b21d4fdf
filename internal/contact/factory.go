package contact

import (
	"github.com/cogstack/cogstack-api/config"
	"github.com/cogstack/cogstack-api/pkg/httpclient"
	"go.uber.org/zap"
)

// NewTransport builds the transport named by cfg.Transport.
// Anything other than webhook falls back to the simulated transport.
func NewTransport(cfg config.ContactConfig, log *zap.Logger) Transport {
	if cfg.Transport == config.TransportWebhook {
		log.Info("Contact transport: webhook", zap.String("url", cfg.WebhookURL))
		return NewWebhookTransport(
			cfg.WebhookURL,
			httpclient.NewClient(cfg.WebhookTimeout()),
			WithWebhookSecret(cfg.WebhookSecret),
		)
	}

	log.Info("Contact transport: simulated", zap.Duration("delay", cfg.SimulatedDelay()))
	return NewSimulatedTransport(cfg.SimulatedDelay(), log)
}
