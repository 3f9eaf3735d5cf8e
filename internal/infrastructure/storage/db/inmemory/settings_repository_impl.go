package inmemory

import (
	"context"

	"github.com/nftswap-network/swapd/internal/core/domain"
)

type settingsRepositoryImpl struct {
	store *settingsInmemoryStore
}

// NewSettingsRepositoryImpl returns a new inmemory SettingsRepository
// implementation.
func NewSettingsRepositoryImpl(
	store *settingsInmemoryStore,
) domain.SettingsRepository {
	return &settingsRepositoryImpl{store}
}

func (r *settingsRepositoryImpl) GetSettings(
	_ context.Context,
) (*domain.Settings, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	clone := *r.store.settings
	return &clone, nil
}

func (r *settingsRepositoryImpl) UpdateSettings(
	_ context.Context,
	updateFn func(*domain.Settings) (*domain.Settings, error),
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	clone := *r.store.settings
	updated, err := updateFn(&clone)
	if err != nil {
		return err
	}

	r.store.settings = updated
	return nil
}
