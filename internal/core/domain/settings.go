package domain

// Settings holds the daemon-wide mutable configuration. The only field the
// engine consults is the trading-live gate, read by Match on every call.
type Settings struct {
	TradingLive bool
}

// DefaultSettings returns the settings applied at first initialization:
// trading enabled.
func DefaultSettings() *Settings {
	return &Settings{TradingLive: true}
}
