package application

import (
	"encoding/json"

	"github.com/nftswap-network/swapd/internal/core/domain"
)

// TradeRequestInfo is the serializable view of a trade request, used both
// by the HTTP interface and as the payload of notifications.
type TradeRequestInfo struct {
	Id               string `json:"id"`
	Requestor        string `json:"requestor"`
	Requestee        string `json:"requestee,omitempty"`
	AssetACollection string `json:"asset_a_collection"`
	AssetBCollection string `json:"asset_b_collection"`
	AssetAId         string `json:"asset_a_id"`
	AssetBId         string `json:"asset_b_id"`
	Expiration       int64  `json:"expiration,omitempty"`
	Status           string `json:"status"`
	CreatedAt        int64  `json:"created_at"`
	ClosedAt         int64  `json:"closed_at,omitempty"`
	MatchedAt        int64  `json:"matched_at,omitempty"`
}

// NewTradeRequestInfo maps a domain trade request to its serializable view.
func NewTradeRequestInfo(r *domain.TradeRequest) TradeRequestInfo {
	return TradeRequestInfo{
		Id:               r.Id.String(),
		Requestor:        r.Requestor,
		Requestee:        r.Requestee,
		AssetACollection: r.AssetACollection,
		AssetBCollection: r.AssetBCollection,
		AssetAId:         r.AssetAId.Hex(),
		AssetBId:         r.AssetBId.Hex(),
		Expiration:       r.Expiration,
		Status:           r.Status.String(),
		CreatedAt:        r.CreatedAt,
		ClosedAt:         r.ClosedAt,
		MatchedAt:        r.MatchedAt,
	}
}

// WebhookInfo is the serializable view of a notification subscription.
type WebhookInfo struct {
	Id       string `json:"id"`
	Topic    string `json:"topic"`
	Endpoint string `json:"endpoint"`
	Secured  bool   `json:"secured"`
}

// DaemonInfo is the operator-facing snapshot of the daemon state.
type DaemonInfo struct {
	TradingLive  bool `json:"trading_live"`
	TradeCount   int  `json:"trade_count"`
	WebhookCount int  `json:"webhook_count"`
}

type notification struct {
	Topic   string           `json:"topic"`
	Request TradeRequestInfo `json:"request"`
}

func serializeNotification(
	topic string, request *domain.TradeRequest,
) (string, error) {
	buf, err := json.Marshal(notification{
		Topic:   topic,
		Request: NewTradeRequestInfo(request),
	})
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
