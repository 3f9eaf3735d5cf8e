package dbbadger_test

import (
	"context"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
	dbbadger "github.com/nftswap-network/swapd/internal/infrastructure/storage/db/badger"
)

func TestBadgerTradeRequestRepository(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)
	repo := repoManager.TradeRequestRepository()

	request := domain.NewTradeRequest(
		"alice", "bob", "collA", "collB",
		uint256.NewInt(1), uint256.NewInt(2), domain.NeverExpires,
	)

	_, err := repo.GetRequest(ctx, request.Id)
	require.EqualError(t, err, domain.ErrRequestNotFound.Error())

	require.NoError(t, repo.AddRequest(ctx, request))

	stored, err := repo.GetRequest(ctx, request.Id)
	require.NoError(t, err)
	require.True(t, request.Id.Equal(stored.Id))
	require.Equal(t, request.Requestor, stored.Requestor)
	require.Equal(t, request.Requestee, stored.Requestee)
	require.True(t, request.AssetAId.Eq(stored.AssetAId))
	require.True(t, request.AssetBId.Eq(stored.AssetBId))
	require.Equal(t, domain.TradeRequestStatusOpen, stored.Status)

	err = repo.UpdateRequest(
		ctx, request.Id,
		func(r *domain.TradeRequest) (*domain.TradeRequest, error) {
			if err := r.Close(r.Requestor); err != nil {
				return nil, err
			}
			return r, nil
		},
	)
	require.NoError(t, err)

	status, err := repo.GetStatus(ctx, request.Id)
	require.NoError(t, err)
	require.Equal(t, domain.TradeRequestStatusClosed, status)

	requests, err := repo.GetAllRequests(ctx)
	require.NoError(t, err)
	require.Len(t, requests, 1)
}

func TestBadgerSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repoManager := newTestRepoManager(t)
	repo := repoManager.SettingsRepository()

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	require.True(t, settings.TradingLive)

	err = repo.UpdateSettings(
		ctx, func(s *domain.Settings) (*domain.Settings, error) {
			s.TradingLive = false
			return s, nil
		},
	)
	require.NoError(t, err)

	settings, err = repo.GetSettings(ctx)
	require.NoError(t, err)
	require.False(t, settings.TradingLive)
}

func newTestRepoManager(t *testing.T) ports.RepoManager {
	t.Helper()

	// An empty datadir opens badger in memory.
	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)

	return repoManager
}
