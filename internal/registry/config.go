package registry

import "go.uber.org/zap"

// DefaultNumShards is used when a Config asks for no shards.
const DefaultNumShards = 16

// Config sizes a Registry and names its logger.
type Config struct {
	Logger    *zap.Logger // default: zap.NewNop()
	NumShards int         // default: DefaultNumShards
}

// NewConfig returns a Config with non-positive or nil fields replaced by defaults.
func NewConfig(logger *zap.Logger, numShards int) Config {
	if logger == nil {
		logger = zap.NewNop()
	}
	if numShards <= 0 {
		numShards = DefaultNumShards
	}
	return Config{
		Logger:    logger,
		NumShards: numShards,
	}
}
