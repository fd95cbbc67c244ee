package lookup

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes successful lookups from an underlying Source and collapses
// concurrent lookups of the same name into one upstream call. Failures are
// never cached.
type Cache struct {
	src    Source
	logger *zap.Logger
	group  singleflight.Group

	mu        sync.RWMutex
	creatures map[string]CreatureRecord
	moves     map[string]MoveRecord
}

// NewCache wraps src.
//
// Precondition: src and logger must be non-nil.
func NewCache(src Source, logger *zap.Logger) *Cache {
	return &Cache{
		src:       src,
		logger:    logger,
		creatures: make(map[string]CreatureRecord),
		moves:     make(map[string]MoveRecord),
	}
}

// Creature returns the cached record for name, fetching it on a miss.
func (c *Cache) Creature(ctx context.Context, name string) (CreatureRecord, error) {
	key := NormalizeName(name)
	c.mu.RLock()
	rec, ok := c.creatures[key]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	v, err, shared := c.group.Do("creature:"+key, func() (any, error) {
		rec, err := c.src.Creature(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.creatures[key] = rec
		c.mu.Unlock()
		return rec, nil
	})
	if err != nil {
		return CreatureRecord{}, err
	}
	c.logger.Debug("creature cache fill", zap.String("name", key), zap.Bool("shared", shared))
	return v.(CreatureRecord), nil
}

// Move returns the cached record for name, fetching it on a miss.
func (c *Cache) Move(ctx context.Context, name string) (MoveRecord, error) {
	key := NormalizeName(name)
	c.mu.RLock()
	rec, ok := c.moves[key]
	c.mu.RUnlock()
	if ok {
		return rec, nil
	}

	v, err, shared := c.group.Do("move:"+key, func() (any, error) {
		rec, err := c.src.Move(ctx, key)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.moves[key] = rec
		c.mu.Unlock()
		return rec, nil
	})
	if err != nil {
		return MoveRecord{}, err
	}
	c.logger.Debug("move cache fill", zap.String("name", key), zap.Bool("shared", shared))
	return v.(MoveRecord), nil
}

// Len returns the number of cached creature and move records.
func (c *Cache) Len() (creatures, moves int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.creatures), len(c.moves)
}
