package registryinmemory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/holiman/uint256"

	"github.com/nftswap-network/swapd/internal/core/domain"
	"github.com/nftswap-network/swapd/internal/core/ports"
)

var (
	// ErrNotAssetOwner is returned when transferring from anyone but the
	// current owner.
	ErrNotAssetOwner = errors.New("from is not the current owner")
	// ErrNotApproved is returned when the owner never approved the daemon as
	// transfer operator.
	ErrNotApproved = errors.New("transfer not approved by the owner")
)

// AssetRegistry is an in-process ports.AssetRegistry keeping ownership and
// operator approvals in memory, intended for tests and local deployments.
// Assets are minted with MintAsset and owners authorize swaps with
// SetApprovalForAll, mimicking the approval rules of an on-chain registry.
type AssetRegistry struct {
	owners    map[string]string
	approvals map[string]bool
	locker    *sync.Mutex
}

var _ ports.AssetRegistry = (*AssetRegistry)(nil)

// NewAssetRegistry returns an empty in-memory registry.
func NewAssetRegistry() *AssetRegistry {
	return &AssetRegistry{
		owners:    map[string]string{},
		approvals: map[string]bool{},
		locker:    &sync.Mutex{},
	}
}

// MintAsset registers an asset with its initial owner.
func (r *AssetRegistry) MintAsset(
	collection, owner string, assetId *uint256.Int,
) {
	r.locker.Lock()
	defer r.locker.Unlock()

	r.owners[assetKey(collection, assetId)] = owner
}

// SetApprovalForAll records whether the owner authorizes the daemon to move
// any of their assets within the collection.
func (r *AssetRegistry) SetApprovalForAll(
	collection, owner string, approved bool,
) {
	r.locker.Lock()
	defer r.locker.Unlock()

	if approved {
		r.approvals[approvalKey(collection, owner)] = true
		return
	}
	delete(r.approvals, approvalKey(collection, owner))
}

func (r *AssetRegistry) IsApprovedForAll(
	_ context.Context, collection, owner string,
) (bool, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	return r.approvals[approvalKey(collection, owner)], nil
}

func (r *AssetRegistry) OwnerOf(
	_ context.Context, collection string, assetId *uint256.Int,
) (string, error) {
	r.locker.Lock()
	defer r.locker.Unlock()

	owner, ok := r.owners[assetKey(collection, assetId)]
	if !ok {
		return "", domain.ErrUnknownAsset
	}
	return owner, nil
}

func (r *AssetRegistry) TransferFrom(
	_ context.Context, collection, from, to string, assetId *uint256.Int,
) error {
	r.locker.Lock()
	defer r.locker.Unlock()

	owner, ok := r.owners[assetKey(collection, assetId)]
	if !ok {
		return domain.ErrUnknownAsset
	}
	if owner != from {
		return ErrNotAssetOwner
	}
	if !r.approvals[approvalKey(collection, from)] {
		return ErrNotApproved
	}

	r.owners[assetKey(collection, assetId)] = to
	return nil
}

func assetKey(collection string, assetId *uint256.Int) string {
	return fmt.Sprintf("%s/%s", collection, assetId.Hex())
}

func approvalKey(collection, owner string) string {
	return fmt.Sprintf("%s/%s", collection, owner)
}
