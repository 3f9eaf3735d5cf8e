package application

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
)

// OperatorService exposes the administrative surface of the daemon: the
// trading-live gate and the management of notification webhooks. The
// authentication of the operator is delegated to the interface layer.
type OperatorService interface {
	// UpdateTradingLive toggles the global gate consulted by MatchTrade.
	UpdateTradingLive(ctx context.Context, live bool) error
	// GetInfo returns a snapshot of the daemon state.
	GetInfo(ctx context.Context) (*DaemonInfo, error)
	// AddWebhook registers an endpoint to be notified for a topic and
	// returns the id of the subscription.
	AddWebhook(ctx context.Context, topic, endpoint, secret string) (string, error)
	// RemoveWebhook deletes the subscription with the given id.
	RemoveWebhook(ctx context.Context, id string) error
	// ListWebhooks returns all subscriptions for a topic.
	ListWebhooks(ctx context.Context, topic string) ([]WebhookInfo, error)
}

type operatorService struct {
	repoManager ports.RepoManager
	pubsub      ports.PubSub
}

// NewOperatorService returns an OperatorService backed by the given
// repositories and pubsub service. The pubsub service is optional; when
// nil, webhook management is rejected.
func NewOperatorService(
	repoManager ports.RepoManager, pubsub ports.PubSub,
) OperatorService {
	return &operatorService{
		repoManager: repoManager,
		pubsub:      pubsub,
	}
}

func (o *operatorService) UpdateTradingLive(
	ctx context.Context, live bool,
) error {
	if err := o.repoManager.SettingsRepository().UpdateSettings(
		ctx, func(s *domain.Settings) (*domain.Settings, error) {
			s.TradingLive = live
			return s, nil
		},
	); err != nil {
		return err
	}

	log.WithField("live", live).Info("trading-live gate updated")
	return nil
}

func (o *operatorService) GetInfo(ctx context.Context) (*DaemonInfo, error) {
	settings, err := o.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := o.repoManager.TradeRequestRepository().GetAllRequests(ctx)
	if err != nil {
		return nil, err
	}

	webhookCount := 0
	if o.pubsub != nil {
		webhookCount = len(o.pubsub.ListSubscriptions(ports.AnyTopic))
	}

	return &DaemonInfo{
		TradingLive:  settings.TradingLive,
		TradeCount:   len(requests),
		WebhookCount: webhookCount,
	}, nil
}

func (o *operatorService) AddWebhook(
	_ context.Context, topic, endpoint, secret string,
) (string, error) {
	if o.pubsub == nil {
		return "", ErrPubSubNotInitialized
	}
	if !isValidTopic(topic) {
		return "", ErrInvalidTopic
	}

	id, err := o.pubsub.Subscribe(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"id":    id,
		"topic": topic,
	}).Info("webhook registered")
	return id, nil
}

func (o *operatorService) RemoveWebhook(_ context.Context, id string) error {
	if o.pubsub == nil {
		return ErrPubSubNotInitialized
	}
	return o.pubsub.Unsubscribe(id)
}

func (o *operatorService) ListWebhooks(
	_ context.Context, topic string,
) ([]WebhookInfo, error) {
	if o.pubsub == nil {
		return nil, ErrPubSubNotInitialized
	}
	if topic != ports.AnyTopic && !isValidTopic(topic) {
		return nil, ErrInvalidTopic
	}

	subs := o.pubsub.ListSubscriptions(topic)
	hooks := make([]WebhookInfo, 0, len(subs))
	for _, sub := range subs {
		hooks = append(hooks, WebhookInfo{
			Id:       sub.Id(),
			Topic:    sub.Topic(),
			Endpoint: sub.NotifyAt(),
			Secured:  sub.IsSecured(),
		})
	}
	return hooks, nil
}

func isValidTopic(topic string) bool {
	switch topic {
	case ports.TradeOpenedTopic, ports.TradeClosedTopic,
		ports.TradeMatchedTopic, ports.AnyTopic:
		return true
	default:
		return false
	}
}
