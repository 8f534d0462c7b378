package factcheck

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/truthlens/internal/cache"
	"github.com/ppiankov/truthlens/internal/model"
)

// CachedGateway memoizes live lookups of another gateway. Demo and
// unavailable results are never stored.
type CachedGateway struct {
	next   Gateway
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedGateway wraps next with a cache; a zero ttl uses the cache default
func NewCachedGateway(next Gateway, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedGateway {
	if logger == nil {
		logger = zap.L()
	}
	return &CachedGateway{next: next, cache: c, ttl: ttl, logger: logger.Named("factcheck.cache")}
}

// Name returns the wrapped gateway's name
func (g *CachedGateway) Name() string {
	return g.next.Name()
}

// Lookup serves from cache when possible and stores fresh live results
func (g *CachedGateway) Lookup(ctx context.Context, claimText string) model.ExternalResultSet {
	key := cache.Key("factcheck:"+g.next.Name(), cache.NormalizeText(claimText))

	if data, ok := g.cache.Get(key); ok {
		var set model.ExternalResultSet
		if err := json.Unmarshal(data, &set); err == nil {
			g.logger.Debug("fact check cache hit")
			return set
		}
		_ = g.cache.Delete(key)
	}

	set := g.next.Lookup(ctx, claimText)
	if set.Provenance != model.ProvenanceLive {
		return set
	}

	data, err := json.Marshal(set)
	if err != nil {
		g.logger.Warn("fact check result not cacheable", zap.Error(err))
		return set
	}
	if err := g.cache.Set(key, data, g.ttl); err != nil {
		g.logger.Warn("fact check cache write failed", zap.Error(err))
	}
	return set
}
