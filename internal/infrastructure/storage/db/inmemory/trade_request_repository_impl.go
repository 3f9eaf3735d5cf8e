package inmemory

import (
	"context"

	"github.com/nftswap-network/swapd/internal/core/domain"
)

type tradeRequestRepositoryImpl struct {
	store *tradeRequestInmemoryStore
}

// NewTradeRequestRepositoryImpl returns a new inmemory TradeRequestRepository
// implementation.
func NewTradeRequestRepositoryImpl(
	store *tradeRequestInmemoryStore,
) domain.TradeRequestRepository {
	return &tradeRequestRepositoryImpl{store}
}

func (r *tradeRequestRepositoryImpl) AddRequest(
	_ context.Context, request *domain.TradeRequest,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	clone := *request
	r.store.requests[request.Id.String()] = &clone
	return nil
}

func (r *tradeRequestRepositoryImpl) GetRequest(
	_ context.Context, id domain.RequestID,
) (*domain.TradeRequest, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	return r.getRequest(id)
}

func (r *tradeRequestRepositoryImpl) GetStatus(
	_ context.Context, id domain.RequestID,
) (domain.TradeRequestStatus, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	request, ok := r.store.requests[id.String()]
	if !ok {
		return domain.TradeRequestStatusUndefined, nil
	}
	return request.Status, nil
}

func (r *tradeRequestRepositoryImpl) GetAllRequests(
	_ context.Context,
) ([]domain.TradeRequest, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	requests := make([]domain.TradeRequest, 0, len(r.store.requests))
	for _, request := range r.store.requests {
		requests = append(requests, *request)
	}
	return requests, nil
}

func (r *tradeRequestRepositoryImpl) UpdateRequest(
	_ context.Context,
	id domain.RequestID,
	updateFn func(*domain.TradeRequest) (*domain.TradeRequest, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	request, err := r.getRequest(id)
	if err != nil {
		return err
	}

	updated, err := updateFn(request)
	if err != nil {
		return err
	}

	r.store.requests[id.String()] = updated
	return nil
}

func (r *tradeRequestRepositoryImpl) getRequest(
	id domain.RequestID,
) (*domain.TradeRequest, error) {
	request, ok := r.store.requests[id.String()]
	if !ok {
		return nil, domain.ErrRequestNotFound
	}

	clone := *request
	return &clone, nil
}
