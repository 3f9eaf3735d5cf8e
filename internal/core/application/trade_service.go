package application

import (
	"context"
	"fmt"
	"time"

	"github.com/holiman/uint256"
	log "github.com/sirupsen/logrus"

	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
)

// OpenTradeArgs are the caller-provided parameters of an OpenTrade. The
// requestor and, for private requests, the requestee are not among them:
// the former is the authenticated caller, the latter is pinned to the
// current owner of asset B at open time.
type OpenTradeArgs struct {
	AssetACollection string
	AssetBCollection string
	AssetAId         *uint256.Int
	AssetBId         *uint256.Int
	IsPrivate        bool
	Expiration       int64
}

// TradeService is the engine orchestrating the lifecycle of trade requests:
// opening, closing, matching, and direct lookup by identifier.
type TradeService interface {
	// OpenTrade creates a new Open trade request offering asset A, owned by
	// the caller, for asset B, and returns its content-derived identifier.
	OpenTrade(
		ctx context.Context, caller string, args OpenTradeArgs,
	) (domain.RequestID, error)
	// CloseTrade withdraws an Open request. Only the requestor may close.
	CloseTrade(ctx context.Context, caller string, id domain.RequestID) error
	// MatchTrade executes the swap of an Open request: asset A moves from
	// the requestor to the caller, asset B from the caller to the requestor,
	// atomically.
	MatchTrade(ctx context.Context, caller string, id domain.RequestID) error
	// GetTradeRequest returns the request stored at the given identifier.
	GetTradeRequest(
		ctx context.Context, id domain.RequestID,
	) (*domain.TradeRequest, error)
	// ListTradeRequests returns all the requests known to the daemon.
	ListTradeRequests(ctx context.Context) ([]domain.TradeRequest, error)
}

type tradeService struct {
	repoManager ports.RepoManager
	registry    ports.AssetRegistry
	pubsub      ports.PubSub
}

// NewTradeService returns a TradeService backed by the given repositories
// and asset registry client. The pubsub service is optional; when nil, no
// notification is published.
func NewTradeService(
	repoManager ports.RepoManager,
	registry ports.AssetRegistry,
	pubsub ports.PubSub,
) TradeService {
	return &tradeService{
		repoManager: repoManager,
		registry:    registry,
		pubsub:      pubsub,
	}
}

func (t *tradeService) OpenTrade(
	ctx context.Context, caller string, args OpenTradeArgs,
) (domain.RequestID, error) {
	if err := validateOpenArgs(caller, args); err != nil {
		return domain.RequestID{}, err
	}

	ownerA, err := t.registry.OwnerOf(
		ctx, args.AssetACollection, args.AssetAId,
	)
	if err != nil {
		return domain.RequestID{}, err
	}
	if ownerA != caller {
		return domain.RequestID{}, domain.ErrNotOwner
	}

	// Private requests pin the counterparty to whoever owns asset B right
	// now, not at match time.
	requestee := domain.AnyRequestee
	if args.IsPrivate {
		ownerB, err := t.registry.OwnerOf(
			ctx, args.AssetBCollection, args.AssetBId,
		)
		if err != nil {
			return domain.RequestID{}, err
		}
		requestee = ownerB
	}

	request := domain.NewTradeRequest(
		caller, requestee,
		args.AssetACollection, args.AssetBCollection,
		args.AssetAId, args.AssetBId,
		args.Expiration,
	)

	repo := t.repoManager.TradeRequestRepository()
	existing, err := repo.GetRequest(ctx, request.Id)
	if err != nil && err != domain.ErrRequestNotFound {
		return domain.RequestID{}, err
	}
	if existing != nil && existing.IsActive(time.Now()) {
		return domain.RequestID{}, domain.ErrDuplicateRequest
	}

	if err := repo.AddRequest(ctx, request); err != nil {
		return domain.RequestID{}, err
	}

	log.WithFields(log.Fields{
		"id":        request.Id.String(),
		"requestor": request.Requestor,
		"private":   request.IsPrivate(),
	}).Info("trade request opened")

	t.publish(ports.TradeOpenedTopic, request)
	return request.Id, nil
}

func (t *tradeService) CloseTrade(
	ctx context.Context, caller string, id domain.RequestID,
) error {
	repo := t.repoManager.TradeRequestRepository()

	if err := repo.UpdateRequest(
		ctx, id, func(r *domain.TradeRequest) (*domain.TradeRequest, error) {
			if err := r.Close(caller); err != nil {
				return nil, err
			}
			return r, nil
		},
	); err != nil {
		if err == domain.ErrRequestNotFound {
			// An absent slot reads as implicitly not open.
			return domain.ErrRequestNotOpen
		}
		return err
	}

	log.WithField("id", id.String()).Info("trade request closed")

	request, err := repo.GetRequest(ctx, id)
	if err == nil {
		t.publish(ports.TradeClosedTopic, request)
	}
	return nil
}

func (t *tradeService) MatchTrade(
	ctx context.Context, caller string, id domain.RequestID,
) error {
	settings, err := t.repoManager.SettingsRepository().GetSettings(ctx)
	if err != nil {
		return err
	}
	if !settings.TradingLive {
		return domain.ErrTradingPaused
	}

	repo := t.repoManager.TradeRequestRepository()
	request, err := repo.GetRequest(ctx, id)
	if err != nil {
		if err == domain.ErrRequestNotFound {
			return domain.ErrRequestNotOpen
		}
		return err
	}

	now := time.Now()
	if !request.IsOpen() {
		return domain.ErrRequestNotOpen
	}
	if request.IsExpired(now) {
		return domain.ErrRequestExpired
	}

	ownerB, err := t.registry.OwnerOf(
		ctx, request.AssetBCollection, request.AssetBId,
	)
	if err != nil {
		return err
	}
	if ownerB != caller {
		return domain.ErrNotOwner
	}
	if !request.Accepts(caller) {
		return domain.ErrNotAuthorizedMatcher
	}

	if err := t.swapAssets(ctx, caller, request); err != nil {
		return err
	}

	if err := repo.UpdateRequest(
		ctx, id, func(r *domain.TradeRequest) (*domain.TradeRequest, error) {
			if err := r.Match(caller, now); err != nil {
				return nil, err
			}
			return r, nil
		},
	); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"id":      id.String(),
		"matcher": caller,
	}).Info("trade request matched")

	request, err = repo.GetRequest(ctx, id)
	if err == nil {
		t.publish(ports.TradeMatchedTopic, request)
	}
	return nil
}

// swapAssets runs the two legs of the escrow-less swap. Both legs are
// validated against the registry before any transfer is attempted, so that
// a rejected swap never moves any asset. Operations are serialized by the
// external sequencing layer, hence a validated leg cannot be invalidated
// by a concurrent transfer.
func (t *tradeService) swapAssets(
	ctx context.Context, matcher string, request *domain.TradeRequest,
) error {
	if err := t.validateSwapLegs(ctx, matcher, request); err != nil {
		log.WithError(err).WithField("id", request.Id.String()).
			Debug("swap rejected")
		return domain.ErrTransferRejected
	}

	if err := t.registry.TransferFrom(
		ctx, request.AssetACollection,
		request.Requestor, matcher, request.AssetAId,
	); err != nil {
		log.WithError(err).WithField("id", request.Id.String()).
			Debug("first swap leg rejected")
		return domain.ErrTransferRejected
	}

	if err := t.registry.TransferFrom(
		ctx, request.AssetBCollection,
		matcher, request.Requestor, request.AssetBId,
	); err != nil {
		log.WithError(err).WithField("id", request.Id.String()).
			Debug("second swap leg rejected, reverting first leg")

		if err := t.registry.TransferFrom(
			ctx, request.AssetACollection,
			matcher, request.Requestor, request.AssetAId,
		); err != nil {
			// The swap was validated upfront, reaching this point means the
			// registry broke its own contract.
			log.WithError(err).WithField("id", request.Id.String()).
				Error("failed to revert first swap leg")
		}
		return domain.ErrTransferRejected
	}

	return nil
}

func (t *tradeService) validateSwapLegs(
	ctx context.Context, matcher string, request *domain.TradeRequest,
) error {
	ownerA, err := t.registry.OwnerOf(
		ctx, request.AssetACollection, request.AssetAId,
	)
	if err != nil {
		return err
	}
	if ownerA != request.Requestor {
		return fmt.Errorf(
			"requestor does not own asset A anymore, current owner is %s",
			ownerA,
		)
	}

	for _, leg := range []struct {
		collection string
		owner      string
	}{
		{request.AssetACollection, request.Requestor},
		{request.AssetBCollection, matcher},
	} {
		approved, err := t.registry.IsApprovedForAll(
			ctx, leg.collection, leg.owner,
		)
		if err != nil {
			return err
		}
		if !approved {
			return fmt.Errorf(
				"%s did not approve transfers on collection %s",
				leg.owner, leg.collection,
			)
		}
	}

	return nil
}

func (t *tradeService) GetTradeRequest(
	ctx context.Context, id domain.RequestID,
) (*domain.TradeRequest, error) {
	return t.repoManager.TradeRequestRepository().GetRequest(ctx, id)
}

func (t *tradeService) ListTradeRequests(
	ctx context.Context,
) ([]domain.TradeRequest, error) {
	return t.repoManager.TradeRequestRepository().GetAllRequests(ctx)
}

func (t *tradeService) publish(topic string, request *domain.TradeRequest) {
	if t.pubsub == nil {
		return
	}

	payload, err := serializeNotification(topic, request)
	if err != nil {
		log.WithError(err).Warn("failed to serialize notification")
		return
	}
	if err := t.pubsub.Publish(topic, payload); err != nil {
		log.WithError(err).WithField("topic", topic).
			Warn("failed to publish notification")
	}
}

func validateOpenArgs(caller string, args OpenTradeArgs) error {
	if caller == "" {
		return ErrMissingCaller
	}
	if args.AssetACollection == "" || args.AssetBCollection == "" {
		return ErrMissingCollection
	}
	if args.AssetAId == nil || args.AssetBId == nil {
		return ErrMissingAssetId
	}
	if args.Expiration < domain.NeverExpires {
		return ErrInvalidExpiration
	}
	return nil
}
