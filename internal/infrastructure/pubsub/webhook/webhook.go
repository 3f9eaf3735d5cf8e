package webhookpubsub

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// Webhook is a subscription for a notification topic, delivered as a POST
// of the JSON payload to the endpoint. A non-empty secret makes deliveries
// carry a signed bearer token.
type Webhook struct {
	ID         string `json:"id"`
	TradeTopic string `json:"topic"`
	Endpoint   string `json:"endpoint"`
	Secret     string `json:"secret"`
}

func NewWebhook(topic, endpoint, secret string) (*Webhook, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("webhook endpoint must be a valid URI")
	}
	id := uuid.New().String()
	return &Webhook{id, topic, endpoint, secret}, nil
}

func (h *Webhook) Id() string {
	return h.ID
}

func (h *Webhook) Topic() string {
	return h.TradeTopic
}

func (h *Webhook) NotifyAt() string {
	return h.Endpoint
}

func (h *Webhook) IsSecured() bool {
	return len(h.Secret) > 0
}
