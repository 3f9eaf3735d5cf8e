package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/nftswap-network/swapd/internal/core/domain"
)

type tradeRequestRepositoryImpl struct {
	store *badgerhold.Store
}

// NewTradeRequestRepositoryImpl returns a badger TradeRequestRepository
// implementation, keyed by the hex rendering of the request identifier.
func NewTradeRequestRepositoryImpl(
	store *badgerhold.Store,
) domain.TradeRequestRepository {
	return &tradeRequestRepositoryImpl{store}
}

func (r *tradeRequestRepositoryImpl) AddRequest(
	_ context.Context, request *domain.TradeRequest,
) error {
	// Open overwrites non-active identifier slots, so an upsert rather than
	// an insert.
	return r.store.Upsert(request.Id.String(), request)
}

func (r *tradeRequestRepositoryImpl) GetRequest(
	_ context.Context, id domain.RequestID,
) (*domain.TradeRequest, error) {
	return r.getRequest(id)
}

func (r *tradeRequestRepositoryImpl) GetStatus(
	_ context.Context, id domain.RequestID,
) (domain.TradeRequestStatus, error) {
	request, err := r.getRequest(id)
	if err != nil {
		if err == domain.ErrRequestNotFound {
			return domain.TradeRequestStatusUndefined, nil
		}
		return domain.TradeRequestStatusUndefined, err
	}
	return request.Status, nil
}

func (r *tradeRequestRepositoryImpl) GetAllRequests(
	_ context.Context,
) ([]domain.TradeRequest, error) {
	requests := make([]domain.TradeRequest, 0)
	if err := r.store.Find(&requests, nil); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *tradeRequestRepositoryImpl) UpdateRequest(
	ctx context.Context,
	id domain.RequestID,
	updateFn func(*domain.TradeRequest) (*domain.TradeRequest, error),
) error {
	request, err := r.getRequest(id)
	if err != nil {
		return err
	}

	updated, err := updateFn(request)
	if err != nil {
		return err
	}

	return r.store.Upsert(id.String(), updated)
}

func (r *tradeRequestRepositoryImpl) getRequest(
	id domain.RequestID,
) (*domain.TradeRequest, error) {
	var request domain.TradeRequest
	if err := r.store.Get(id.String(), &request); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}
