package domain

import (
	"time"

	"github.com/holiman/uint256"
)

const (
	// TradeRequestStatusUndefined is the zero-value status of an identifier
	// slot that was never written. It reads as "not open".
	TradeRequestStatusUndefined TradeRequestStatus = iota
	// TradeRequestStatusOpen means the request can be closed by its requestor
	// or matched by an eligible counterparty.
	TradeRequestStatusOpen
	// TradeRequestStatusClosed means the request was withdrawn by its
	// requestor. Terminal.
	TradeRequestStatusClosed
	// TradeRequestStatusMatched means the two-legged transfer was executed.
	// Terminal.
	TradeRequestStatusMatched
)

// AnyRequestee is the sentinel requestee of a public trade request, ie. one
// that any current owner of asset B is allowed to match.
const AnyRequestee = ""

// NeverExpires is the sentinel expiration of a request that does not lapse.
const NeverExpires int64 = 0

// TradeRequestStatus represents the different statuses that a trade request
// can assume.
type TradeRequestStatus int

func (s TradeRequestStatus) String() string {
	switch s {
	case TradeRequestStatusOpen:
		return "open"
	case TradeRequestStatusClosed:
		return "closed"
	case TradeRequestStatusMatched:
		return "matched"
	default:
		return "undefined"
	}
}

// IsTerminal returns whether no further transition can leave the status.
func (s TradeRequestStatus) IsTerminal() bool {
	return s == TradeRequestStatusClosed || s == TradeRequestStatusMatched
}

// TradeRequest is the data structure representing a durable intent to swap
// asset A, owned by the requestor, for asset B. The identifying fields are
// immutable once created; only Status and the bookkeeping timestamps change.
// The record is an intent, not custody: the asset registry remains the sole
// authority on ownership.
type TradeRequest struct {
	Id               RequestID
	Requestor        string
	Requestee        string
	AssetACollection string
	AssetBCollection string
	AssetAId         *uint256.Int
	AssetBId         *uint256.Int
	Expiration       int64
	Status           TradeRequestStatus
	CreatedAt        int64
	ClosedAt         int64
	MatchedAt        int64
}

// NewTradeRequest returns an Open trade request with its identifier derived
// from the identifying fields.
func NewTradeRequest(
	requestor, requestee, assetACollection, assetBCollection string,
	assetAId, assetBId *uint256.Int, expiration int64,
) *TradeRequest {
	return &TradeRequest{
		Id: DeriveRequestID(
			requestor, requestee,
			assetACollection, assetBCollection,
			assetAId, assetBId,
		),
		Requestor:        requestor,
		Requestee:        requestee,
		AssetACollection: assetACollection,
		AssetBCollection: assetBCollection,
		AssetAId:         assetAId,
		AssetBId:         assetBId,
		Expiration:       expiration,
		Status:           TradeRequestStatusOpen,
		CreatedAt:        time.Now().Unix(),
	}
}

// IsOpen returns whether the request is in the Open status.
func (r *TradeRequest) IsOpen() bool {
	return r.Status == TradeRequestStatusOpen
}

// IsPrivate returns whether the request is restricted to a pinned requestee.
func (r *TradeRequest) IsPrivate() bool {
	return r.Requestee != AnyRequestee
}

// IsExpired returns whether the request has a finite expiration and the
// given instant is at or past it. Never-expiring requests are never expired.
func (r *TradeRequest) IsExpired(now time.Time) bool {
	return r.Expiration != NeverExpires && now.Unix() >= r.Expiration
}

// IsActive returns whether the request is Open and not yet lapsed, ie.
// whether its identifier slot is still occupied and must not be overwritten.
func (r *TradeRequest) IsActive(now time.Time) bool {
	return r.IsOpen() && !r.IsExpired(now)
}

// Accepts returns whether the given party is allowed to match the request.
// Public requests accept anyone; private ones only the requestee pinned at
// open time, regardless of who owns asset B now.
func (r *TradeRequest) Accepts(party string) bool {
	return r.Requestee == AnyRequestee || r.Requestee == party
}

// Close brings an Open request to the Closed status. Only the requestor is
// allowed to close.
func (r *TradeRequest) Close(party string) error {
	if party != r.Requestor {
		return ErrUnauthorized
	}
	if !r.IsOpen() {
		return ErrRequestNotOpen
	}

	r.Status = TradeRequestStatusClosed
	r.ClosedAt = time.Now().Unix()
	return nil
}

// Match brings an Open request to the Matched status. Ownership checks and
// the transfers themselves are the engine's job; this only validates the
// state machine side: status, expiration and the requestee restriction.
func (r *TradeRequest) Match(party string, now time.Time) error {
	if !r.IsOpen() {
		return ErrRequestNotOpen
	}
	if r.IsExpired(now) {
		return ErrRequestExpired
	}
	if !r.Accepts(party) {
		return ErrNotAuthorizedMatcher
	}

	r.Status = TradeRequestStatusMatched
	r.MatchedAt = now.Unix()
	return nil
}
