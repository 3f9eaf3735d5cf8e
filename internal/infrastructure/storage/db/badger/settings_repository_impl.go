package dbbadger

import (
	"context"

	"github.com/timshannon/badgerhold/v4"

	"github.com/nftswap-network/swapd/internal/core/domain"
)

const settingsKey = "settings"

type settingsRepositoryImpl struct {
	store *badgerhold.Store
}

// NewSettingsRepositoryImpl returns a badger SettingsRepository
// implementation. The settings live under a single fixed key.
func NewSettingsRepositoryImpl(
	store *badgerhold.Store,
) domain.SettingsRepository {
	return &settingsRepositoryImpl{store}
}

func (r *settingsRepositoryImpl) GetSettings(
	_ context.Context,
) (*domain.Settings, error) {
	return r.getSettings()
}

func (r *settingsRepositoryImpl) UpdateSettings(
	_ context.Context,
	updateFn func(*domain.Settings) (*domain.Settings, error),
) error {
	settings, err := r.getSettings()
	if err != nil {
		return err
	}

	updated, err := updateFn(settings)
	if err != nil {
		return err
	}

	return r.store.Upsert(settingsKey, updated)
}

func (r *settingsRepositoryImpl) getSettings() (*domain.Settings, error) {
	var settings domain.Settings
	if err := r.store.Get(settingsKey, &settings); err != nil {
		if err == badgerhold.ErrNotFound {
			return domain.DefaultSettings(), nil
		}
		return nil, err
	}
	return &settings, nil
}
