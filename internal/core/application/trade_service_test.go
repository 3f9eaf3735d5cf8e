package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nftswap-network/swapd/internal/core/application"
	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
	registryinmemory "github.com/nftswap-network/swapd/internal/infrastructure/registry/inmemory"
	"github.com/nftswap-network/swapd/internal/infrastructure/storage/db/inmemory"
)

const (
	alice = "alice"
	bob   = "bob"
	carol = "carol"
	collA = "collA"
	collB = "collB"
)

var (
	assetA = uint256.NewInt(1)
	assetB = uint256.NewInt(2)

	publicOpenArgs = application.OpenTradeArgs{
		AssetACollection: collA,
		AssetBCollection: collB,
		AssetAId:         assetA,
		AssetBId:         assetB,
		Expiration:       domain.NeverExpires,
	}
)

func TestOpenTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_open", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(alice, nil)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		id, err := svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.NoError(t, err)

		request, err := svc.GetTradeRequest(ctx, id)
		require.NoError(t, err)
		require.True(t, request.IsOpen())
		require.Equal(t, alice, request.Requestor)
		require.Equal(t, domain.AnyRequestee, request.Requestee)
		registry.AssertExpectations(t)
	})

	t.Run("caller_not_owner", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(bob, nil)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		_, err := svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.EqualError(t, err, domain.ErrNotOwner.Error())
	})

	t.Run("unknown_asset", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).
			Return("", domain.ErrUnknownAsset)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		_, err := svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.EqualError(t, err, domain.ErrUnknownAsset.Error())
	})

	t.Run("private_open_pins_requestee", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(alice, nil)
		registry.On("OwnerOf", ctx, collB, assetB).Return(bob, nil)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		args := publicOpenArgs
		args.IsPrivate = true
		id, err := svc.OpenTrade(ctx, alice, args)
		require.NoError(t, err)

		request, err := svc.GetTradeRequest(ctx, id)
		require.NoError(t, err)
		require.True(t, request.IsPrivate())
		require.Equal(t, bob, request.Requestee)
	})

	t.Run("duplicate_while_active", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(alice, nil)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		_, err := svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.NoError(t, err)

		_, err = svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.EqualError(t, err, domain.ErrDuplicateRequest.Error())
	})

	t.Run("reopen_after_close", func(t *testing.T) {
		f := newTradeFixture(t, false)

		require.NoError(t, f.svc.CloseTrade(ctx, alice, f.id))

		reopened, err := f.svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.NoError(t, err)
		require.True(t, f.id.Equal(reopened))

		request, err := f.svc.GetTradeRequest(ctx, f.id)
		require.NoError(t, err)
		require.True(t, request.IsOpen())
	})

	t.Run("reopen_after_expiry", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(alice, nil)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		args := publicOpenArgs
		args.Expiration = time.Now().Add(-time.Hour).Unix()
		_, err := svc.OpenTrade(ctx, alice, args)
		require.NoError(t, err)

		// The slot holds an open but lapsed request: overwriting is allowed.
		_, err = svc.OpenTrade(ctx, alice, args)
		require.NoError(t, err)
	})

	t.Run("missing_args", func(t *testing.T) {
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), &mockAssetRegistry{}, nil,
		)

		_, err := svc.OpenTrade(ctx, "", publicOpenArgs)
		require.EqualError(t, err, application.ErrMissingCaller.Error())

		args := publicOpenArgs
		args.AssetAId = nil
		_, err = svc.OpenTrade(ctx, alice, args)
		require.EqualError(t, err, application.ErrMissingAssetId.Error())

		args = publicOpenArgs
		args.AssetBCollection = ""
		_, err = svc.OpenTrade(ctx, alice, args)
		require.EqualError(t, err, application.ErrMissingCollection.Error())
	})
}

func TestCloseTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_close", func(t *testing.T) {
		f := newTradeFixture(t, false)

		err := f.svc.CloseTrade(ctx, alice, f.id)
		require.NoError(t, err)

		request, err := f.svc.GetTradeRequest(ctx, f.id)
		require.NoError(t, err)
		require.Equal(t, domain.TradeRequestStatusClosed, request.Status)
	})

	t.Run("not_requestor", func(t *testing.T) {
		f := newTradeFixture(t, false)

		err := f.svc.CloseTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrUnauthorized.Error())
	})

	t.Run("absent_request", func(t *testing.T) {
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), &mockAssetRegistry{}, nil,
		)

		err := svc.CloseTrade(ctx, alice, domain.DeriveRequestID(
			alice, "", collA, collB, assetA, assetB,
		))
		require.EqualError(t, err, domain.ErrRequestNotOpen.Error())
	})

	t.Run("match_after_close", func(t *testing.T) {
		f := newTradeFixture(t, false)
		require.NoError(t, f.svc.CloseTrade(ctx, alice, f.id))

		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrRequestNotOpen.Error())
	})
}

func TestMatchTrade(t *testing.T) {
	ctx := context.Background()

	t.Run("valid_match_swaps_assets", func(t *testing.T) {
		f := newTradeFixture(t, false)

		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.NoError(t, err)

		request, err := f.svc.GetTradeRequest(ctx, f.id)
		require.NoError(t, err)
		require.Equal(t, domain.TradeRequestStatusMatched, request.Status)

		ownerA, err := f.registry.OwnerOf(ctx, collA, assetA)
		require.NoError(t, err)
		require.Equal(t, bob, ownerA)
		ownerB, err := f.registry.OwnerOf(ctx, collB, assetB)
		require.NoError(t, err)
		require.Equal(t, alice, ownerB)
	})

	t.Run("second_match_fails", func(t *testing.T) {
		f := newTradeFixture(t, false)
		require.NoError(t, f.svc.MatchTrade(ctx, bob, f.id))

		// Matched is terminal.
		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrRequestNotOpen.Error())
	})

	t.Run("trading_paused", func(t *testing.T) {
		f := newTradeFixture(t, false)
		require.NoError(t, f.operatorSvc.UpdateTradingLive(ctx, false))

		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrTradingPaused.Error())

		request, err := f.svc.GetTradeRequest(ctx, f.id)
		require.NoError(t, err)
		require.True(t, request.IsOpen())
	})

	t.Run("match_after_reenabling_gate", func(t *testing.T) {
		f := newTradeFixture(t, false)
		require.NoError(t, f.operatorSvc.UpdateTradingLive(ctx, false))
		require.EqualError(
			t, f.svc.MatchTrade(ctx, bob, f.id), domain.ErrTradingPaused.Error(),
		)

		require.NoError(t, f.operatorSvc.UpdateTradingLive(ctx, true))
		require.NoError(t, f.svc.MatchTrade(ctx, bob, f.id))

		ownerA, err := f.registry.OwnerOf(ctx, collA, assetA)
		require.NoError(t, err)
		require.Equal(t, bob, ownerA)
	})

	t.Run("caller_not_owner_of_asset_b", func(t *testing.T) {
		f := newTradeFixture(t, false)

		err := f.svc.MatchTrade(ctx, carol, f.id)
		require.EqualError(t, err, domain.ErrNotOwner.Error())
	})

	t.Run("private_request_rejects_new_owner", func(t *testing.T) {
		// The requestee was pinned to bob at open time. Asset B then changed
		// hands to carol: carol passes the ownership gate but not the
		// requestee one.
		f := newTradeFixture(t, true)
		f.registry.MintAsset(collB, carol, assetB)
		f.registry.SetApprovalForAll(collB, carol, true)

		err := f.svc.MatchTrade(ctx, carol, f.id)
		require.EqualError(t, err, domain.ErrNotAuthorizedMatcher.Error())

		request, err := f.svc.GetTradeRequest(ctx, f.id)
		require.NoError(t, err)
		require.True(t, request.IsOpen())
	})

	t.Run("expired_request", func(t *testing.T) {
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(alice, nil)
		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)

		args := publicOpenArgs
		args.Expiration = time.Now().Add(-time.Hour).Unix()
		id, err := svc.OpenTrade(ctx, alice, args)
		require.NoError(t, err)

		err = svc.MatchTrade(ctx, bob, id)
		require.EqualError(t, err, domain.ErrRequestExpired.Error())
	})

	t.Run("requestor_approval_withdrawn", func(t *testing.T) {
		f := newTradeFixture(t, false)

		// Alice withdraws her approval after opening: the swap is rejected
		// upfront and nothing moves.
		f.registry.SetApprovalForAll(collA, alice, false)

		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrTransferRejected.Error())

		f.assertNothingMoved(t)
	})

	t.Run("matcher_never_approved", func(t *testing.T) {
		f := newTradeFixture(t, false)

		// Bob never approved transfers of his assets: the second leg would
		// be rejected, so neither is attempted.
		f.registry.SetApprovalForAll(collB, bob, false)

		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrTransferRejected.Error())

		f.assertNothingMoved(t)
	})

	t.Run("requestor_sold_asset_a", func(t *testing.T) {
		f := newTradeFixture(t, false)

		// Asset A changed hands after the request was opened: the first leg
		// would be rejected, so the swap is.
		f.registry.MintAsset(collA, carol, assetA)

		err := f.svc.MatchTrade(ctx, bob, f.id)
		require.EqualError(t, err, domain.ErrTransferRejected.Error())

		request, err := f.svc.GetTradeRequest(ctx, f.id)
		require.NoError(t, err)
		require.True(t, request.IsOpen())

		ownerB, err := f.registry.OwnerOf(ctx, collB, assetB)
		require.NoError(t, err)
		require.Equal(t, bob, ownerB)
	})

	t.Run("second_leg_rejected_reverts_first", func(t *testing.T) {
		// The registry accepts the first leg but rejects the second one
		// despite the upfront validation: the first leg must be compensated
		// back and the request stays open.
		registry := &mockAssetRegistry{}
		registry.On("OwnerOf", ctx, collA, assetA).Return(alice, nil)
		registry.On("OwnerOf", ctx, collB, assetB).Return(bob, nil)
		registry.On("IsApprovedForAll", ctx, collA, alice).Return(true, nil)
		registry.On("IsApprovedForAll", ctx, collB, bob).Return(true, nil)
		registry.On("TransferFrom", ctx, collA, alice, bob, assetA).
			Return(nil).Once()
		registry.On("TransferFrom", ctx, collB, bob, alice, assetB).
			Return(errors.New("transfer rejected by registry")).Once()
		registry.On("TransferFrom", ctx, collA, bob, alice, assetA).
			Return(nil).Once()

		svc := application.NewTradeService(
			inmemory.NewRepoManager(), registry, nil,
		)
		id, err := svc.OpenTrade(ctx, alice, publicOpenArgs)
		require.NoError(t, err)

		err = svc.MatchTrade(ctx, bob, id)
		require.EqualError(t, err, domain.ErrTransferRejected.Error())

		request, err := svc.GetTradeRequest(ctx, id)
		require.NoError(t, err)
		require.True(t, request.IsOpen())
		registry.AssertExpectations(t)
	})
}

func TestTradeNotifications(t *testing.T) {
	ctx := context.Background()

	repoManager := inmemory.NewRepoManager()
	registry := newApprovedRegistry()
	pubsub := &mockPubSub{}
	pubsub.On("Publish", ports.TradeOpenedTopic, mock.Anything).Return(nil).Once()
	pubsub.On("Publish", ports.TradeClosedTopic, mock.Anything).Return(nil).Once()
	svc := application.NewTradeService(repoManager, registry, pubsub)

	id, err := svc.OpenTrade(ctx, alice, publicOpenArgs)
	require.NoError(t, err)
	require.NoError(t, svc.CloseTrade(ctx, alice, id))

	pubsub.AssertExpectations(t)
}

type tradeFixture struct {
	svc         application.TradeService
	operatorSvc application.OperatorService
	registry    *registryinmemory.AssetRegistry
	id          domain.RequestID
}

// newTradeFixture opens a trade on a fresh stack: in-memory repositories, an
// in-memory registry with both parties approved, no pubsub.
func newTradeFixture(t *testing.T, private bool) *tradeFixture {
	t.Helper()

	repoManager := inmemory.NewRepoManager()
	registry := newApprovedRegistry()
	svc := application.NewTradeService(repoManager, registry, nil)
	operatorSvc := application.NewOperatorService(repoManager, nil)

	args := publicOpenArgs
	args.IsPrivate = private
	id, err := svc.OpenTrade(context.Background(), alice, args)
	require.NoError(t, err)

	return &tradeFixture{svc, operatorSvc, registry, id}
}

func newApprovedRegistry() *registryinmemory.AssetRegistry {
	registry := registryinmemory.NewAssetRegistry()
	registry.MintAsset(collA, alice, assetA)
	registry.MintAsset(collB, bob, assetB)
	registry.SetApprovalForAll(collA, alice, true)
	registry.SetApprovalForAll(collB, bob, true)
	return registry
}

func (f *tradeFixture) assertNothingMoved(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	request, err := f.svc.GetTradeRequest(ctx, f.id)
	require.NoError(t, err)
	require.True(t, request.IsOpen())

	ownerA, err := f.registry.OwnerOf(ctx, collA, assetA)
	require.NoError(t, err)
	require.Equal(t, alice, ownerA)
	ownerB, err := f.registry.OwnerOf(ctx, collB, assetB)
	require.NoError(t, err)
	require.Equal(t, bob, ownerB)
}
