package webhookpubsub

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/nftswap-network/swapd/internal/core/ports"
	"github.com/nftswap-network/swapd/pkg/circuitbreaker"
)

var (
	// ErrSubscriptionNotFound ...
	ErrSubscriptionNotFound = errors.New("subscription not found")
)

const requestTimeout = 10 * time.Second

type webhookService struct {
	hooks      map[string]*Webhook
	locker     *sync.Mutex
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

// NewWebhookPubSubService returns a ports.PubSub invoking the registered
// webhook endpoints for every published message. Deliveries go through a
// circuit breaker to avoid hammering endpoints that keep failing.
func NewWebhookPubSubService() ports.PubSub {
	return &webhookService{
		hooks:      map[string]*Webhook{},
		locker:     &sync.Mutex{},
		httpClient: &http.Client{Timeout: requestTimeout},
		cb:         circuitbreaker.NewCircuitBreaker("webhook"),
	}
}

func (ws *webhookService) Subscribe(topic, endpoint, secret string) (string, error) {
	hook, err := NewWebhook(topic, endpoint, secret)
	if err != nil {
		return "", err
	}

	ws.locker.Lock()
	defer ws.locker.Unlock()

	ws.hooks[hook.ID] = hook
	return hook.ID, nil
}

func (ws *webhookService) Unsubscribe(id string) error {
	ws.locker.Lock()
	defer ws.locker.Unlock()

	if _, ok := ws.hooks[id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(ws.hooks, id)
	return nil
}

func (ws *webhookService) ListSubscriptions(topic string) []ports.Subscription {
	hooks := ws.getHooksByTopic(topic)
	subs := make([]ports.Subscription, len(hooks))
	for i, h := range hooks {
		subs[i] = h
	}
	return subs
}

// Publish makes a POST request to every webhook endpoint registered for the
// given topic. This method adopts a circuit breaker approach in order to
// maximize the chances that every webhook gets invoked without errors.
func (ws *webhookService) Publish(topic string, message string) error {
	hooks := ws.getHooksByTopic(topic)

	eg := &errgroup.Group{}
	for i := range hooks {
		hook := hooks[i]
		eg.Go(func() error { return ws.doRequest(hook, message) })
	}
	return eg.Wait()
}

func (ws *webhookService) Close() error {
	return nil
}

func (ws *webhookService) getHooksByTopic(topic string) []*Webhook {
	ws.locker.Lock()
	defer ws.locker.Unlock()

	hooks := make([]*Webhook, 0, len(ws.hooks))
	for _, hook := range ws.hooks {
		if topic == ports.AnyTopic ||
			hook.TradeTopic == topic || hook.TradeTopic == ports.AnyTopic {
			hooks = append(hooks, hook)
		}
	}
	return hooks
}

func (ws *webhookService) doRequest(hook *Webhook, payload string) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(
			ctx, http.MethodPost, hook.Endpoint, strings.NewReader(payload),
		)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		if hook.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"iat":   time.Now().Unix(),
				"topic": hook.TradeTopic,
			})
			tokenString, _ := token.SignedString([]byte(hook.Secret))
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", tokenString))
		}

		res, err := ws.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()

		if res.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(res.Body)
			return nil, fmt.Errorf(
				"webhook returned status %d: %s", res.StatusCode, string(body),
			)
		}
		return nil, nil
	})

	return err
}
