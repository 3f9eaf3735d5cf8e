package ports

import "github.com/nftswap-network/swapd/internal/core/domain"

// RepoManager gives access to all the repositories of the daemon backed by
// the same underlying store.
type RepoManager interface {
	TradeRequestRepository() domain.TradeRequestRepository
	SettingsRepository() domain.SettingsRepository

	// Close should be used to gracefully close the connection with the store.
	Close()
}
