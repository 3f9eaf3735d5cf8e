package domain

import "errors"

var (
	// ErrNotOwner is thrown when the caller is not the registry's current
	// owner of the asset the operation requires them to own.
	ErrNotOwner = errors.New("caller does not own the asset")
	// ErrNotAuthorizedMatcher is thrown when a private request is matched by
	// anyone other than its pinned requestee.
	ErrNotAuthorizedMatcher = errors.New("caller is not the allowed requestee")
	// ErrUnauthorized is thrown when anyone but the requestor closes a request.
	ErrUnauthorized = errors.New("caller is not the requestor")
	// ErrRequestNotOpen is thrown when the operation needs an Open request.
	ErrRequestNotOpen = errors.New("trade request is not open")
	// ErrDuplicateRequest is thrown when opening a request whose identifier
	// slot holds a still-active request.
	ErrDuplicateRequest = errors.New("trade request already exists")
	// ErrRequestExpired is thrown when matching a lapsed request.
	ErrRequestExpired = errors.New("trade request is expired")
	// ErrRequestNotFound is thrown on lookup of an identifier with no record.
	ErrRequestNotFound = errors.New("trade request not found")
	// ErrTradingPaused is thrown by Match while the trading-live gate is off.
	ErrTradingPaused = errors.New("trading is paused")
	// ErrUnknownAsset is thrown by the registry for a non-existent asset.
	ErrUnknownAsset = errors.New("asset does not exist in the registry")
	// ErrTransferRejected is thrown when the registry rejects either leg of
	// the swap. The whole operation aborts with no net asset movement.
	ErrTransferRejected = errors.New("asset transfer rejected by the registry")
)
