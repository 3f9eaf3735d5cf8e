package inmemory

import (
	"sync"

	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
)

type tradeRequestInmemoryStore struct {
	requests map[string]*domain.TradeRequest
	locker   *sync.Mutex
}

type settingsInmemoryStore struct {
	settings *domain.Settings
	locker   *sync.Mutex
}

type repoManager struct {
	tradeRequestRepository domain.TradeRequestRepository
	settingsRepository     domain.SettingsRepository
}

// NewRepoManager returns a ports.RepoManager backed by in-memory storage,
// intended for tests and throwaway deployments.
func NewRepoManager() ports.RepoManager {
	requestStore := &tradeRequestInmemoryStore{
		requests: map[string]*domain.TradeRequest{},
		locker:   &sync.Mutex{},
	}
	settingsStore := &settingsInmemoryStore{
		settings: domain.DefaultSettings(),
		locker:   &sync.Mutex{},
	}

	return &repoManager{
		tradeRequestRepository: NewTradeRequestRepositoryImpl(requestStore),
		settingsRepository:     NewSettingsRepositoryImpl(settingsStore),
	}
}

func (m *repoManager) TradeRequestRepository() domain.TradeRequestRepository {
	return m.tradeRequestRepository
}

func (m *repoManager) SettingsRepository() domain.SettingsRepository {
	return m.settingsRepository
}

func (m *repoManager) Close() {}
