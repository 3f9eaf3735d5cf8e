package ports

import (
	"context"

	"github.com/holiman/uint256"
)

// AssetRegistry is the client-side contract of the external registry that is
// the source of truth for asset ownership. The engine never holds custody:
// every swap is two linked TransferFrom calls against this port.
//
// Implementations must report failures as errors and must not mutate any
// state when a call fails: the engine relies on a rejected transfer leaving
// ownership untouched.
type AssetRegistry interface {
	// OwnerOf returns the identity of the current owner of the asset within
	// the given collection, or domain.ErrUnknownAsset if the asset does not
	// exist.
	OwnerOf(
		ctx context.Context, collection string, assetId *uint256.Int,
	) (string, error)
	// IsApprovedForAll returns whether the owner authorized the daemon to
	// move their assets within the collection. Both swap legs are checked
	// through this before any transfer is attempted, so that a swap either
	// moves both assets or none.
	IsApprovedForAll(
		ctx context.Context, collection, owner string,
	) (bool, error)
	// TransferFrom moves the asset from one owner to another. It fails if
	// from is not the current owner or if the transfer is not authorized by
	// the registry's own rules, eg. a missing prior approval.
	TransferFrom(
		ctx context.Context, collection, from, to string, assetId *uint256.Int,
	) error
}
