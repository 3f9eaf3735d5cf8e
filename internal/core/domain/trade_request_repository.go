package domain

import "context"

// TradeRequestRepository is the abstraction for any kind of database
// intended to persist TradeRequests, keyed by their content-derived
// identifier. It is a pure persistence layer: all validation lives in the
// domain model and the application services.
type TradeRequestRepository interface {
	// AddRequest writes the given request at its identifier slot,
	// overwriting whatever record the slot held before.
	AddRequest(ctx context.Context, request *TradeRequest) error
	// GetRequest returns the request stored at the given identifier, or
	// ErrRequestNotFound if the slot was never written.
	GetRequest(ctx context.Context, id RequestID) (*TradeRequest, error)
	// GetStatus returns the status of the request at the given identifier.
	// Absent slots read as TradeRequestStatusUndefined without error.
	GetStatus(ctx context.Context, id RequestID) (TradeRequestStatus, error)
	// GetAllRequests returns all the requests stored in the repository.
	GetAllRequests(ctx context.Context) ([]TradeRequest, error)
	// UpdateRequest allows to commit multiple changes to the same request in
	// a transactional way.
	UpdateRequest(
		ctx context.Context,
		id RequestID,
		updateFn func(r *TradeRequest) (*TradeRequest, error),
	) error
}

// SettingsRepository persists the daemon-wide settings, the trading-live
// gate above all.
type SettingsRepository interface {
	// GetSettings returns the current settings, falling back to defaults if
	// none were stored yet.
	GetSettings(ctx context.Context) (*Settings, error)
	// UpdateSettings allows to commit changes to the settings in a
	// transactional way.
	UpdateSettings(
		ctx context.Context,
		updateFn func(s *Settings) (*Settings, error),
	) error
}
