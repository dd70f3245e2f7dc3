package updates

import (
	"time"

	"github.com/TheNightmareX/ChaaAt-backend/pkg/types"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultPollTimeout = 30 * time.Second
	defaultCacheLimit  = 256
)

// Config encapsulates all tunables for Broker construction.
type Config struct {
	// PollTimeout bounds Next and WaitUntil when the caller passes a
	// non-positive timeout. Zero means the package default (30s).
	PollTimeout time.Duration
	// CacheLimit caps the per-key cache of undelivered updates. Zero means
	// the package default (256); a negative value disables the cap.
	CacheLimit int
}

// New constructs a Broker with package defaults.
func New() *Broker {
	return NewWithConfig(Config{})
}

// NewWithConfig constructs a Broker from Config.
func NewWithConfig(cfg Config) *Broker {
	b := &Broker{
		waiters:     make(map[string]*waiter),
		caches:      make(map[string][]types.Update),
		subscribers: make(map[string]map[chan struct{}]struct{}),
	}
	if cfg.PollTimeout <= 0 {
		b.pollTimeout = defaultPollTimeout
	} else {
		b.pollTimeout = cfg.PollTimeout
	}
	switch {
	case cfg.CacheLimit == 0:
		b.cacheLimit = defaultCacheLimit
	case cfg.CacheLimit < 0:
		b.cacheLimit = 0 // unbounded
	default:
		b.cacheLimit = cfg.CacheLimit
	}
	return b
}
