package application_test

import (
	"context"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/mock"

	"github.com/nftswap-network/swapd/internal/core/ports"
)

// **** AssetRegistry ****

type mockAssetRegistry struct {
	mock.Mock
}

func (m *mockAssetRegistry) OwnerOf(
	ctx context.Context, collection string, assetId *uint256.Int,
) (string, error) {
	args := m.Called(ctx, collection, assetId)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockAssetRegistry) IsApprovedForAll(
	ctx context.Context, collection, owner string,
) (bool, error) {
	args := m.Called(ctx, collection, owner)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockAssetRegistry) TransferFrom(
	ctx context.Context, collection, from, to string, assetId *uint256.Int,
) error {
	args := m.Called(ctx, collection, from, to, assetId)
	return args.Error(0)
}

// **** PubSub ****

type mockPubSub struct {
	mock.Mock
}

func (m *mockPubSub) Subscribe(topic, endpoint, secret string) (string, error) {
	args := m.Called(topic, endpoint, secret)

	var res string
	if a := args.Get(0); a != nil {
		res = a.(string)
	}
	return res, args.Error(1)
}

func (m *mockPubSub) Unsubscribe(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockPubSub) ListSubscriptions(topic string) []ports.Subscription {
	args := m.Called(topic)

	var res []ports.Subscription
	if a := args.Get(0); a != nil {
		res = a.([]ports.Subscription)
	}
	return res
}

func (m *mockPubSub) Publish(topic string, message string) error {
	args := m.Called(topic, message)
	return args.Error(0)
}

func (m *mockPubSub) Close() error {
	args := m.Called()
	return args.Error(0)
}
