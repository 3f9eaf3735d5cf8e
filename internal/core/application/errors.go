package application

import "errors"

var (
	// ErrMissingCaller ...
	ErrMissingCaller = errors.New("missing caller identity")
	// ErrMissingCollection ...
	ErrMissingCollection = errors.New("both asset collections must be set")
	// ErrMissingAssetId ...
	ErrMissingAssetId = errors.New("both asset ids must be set")
	// ErrInvalidExpiration ...
	ErrInvalidExpiration = errors.New("expiration must be 0 or a unix timestamp")
	// ErrInvalidTopic is returned when subscribing a webhook for an unknown
	// notification topic.
	ErrInvalidTopic = errors.New("unknown notification topic")
	// ErrPubSubNotInitialized is returned when attempting to manage webhooks
	// while the daemon runs without a pubsub service.
	ErrPubSubNotInitialized = errors.New("pubsub service is not initialized")
)
