package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/goroutine"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
)

// CacheService кэширует выдачу открытых заказов в памяти процесса.
// Любая запись (новый заказ, найм) сбрасывает кэш целиком и увеличивает поколение.
// Set с устаревшим поколением игнорируется: выборка, начатая до сброса, в кэш не попадёт.
type CacheService struct {
	mu         sync.RWMutex
	ttl        time.Duration
	generation uint64
	cache      map[string]*cacheEntry
}

type cacheEntry struct {
	gigs      []*entity.Gig
	expiresAt time.Time
}

// NewCacheService создаёт кэш. Фоновая очистка работает до отмены ctx.
func NewCacheService(ctx context.Context, ttl time.Duration) *CacheService {
	cs := &CacheService{
		ttl:   ttl,
		cache: make(map[string]*cacheEntry),
	}

	goroutine.SafeGoWithContext(ctx, cs.cleanup)

	return cs
}

// Get возвращает запись и текущее поколение. Поколение нужно передать в Set.
func (cs *CacheService) Get(key string) ([]*entity.Gig, uint64, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	entry, exists := cs.cache[key]
	if !exists || time.Now().After(entry.expiresAt) {
		return nil, cs.generation, false
	}

	out := make([]*entity.Gig, len(entry.gigs))
	copy(out, entry.gigs)
	return out, cs.generation, true
}

// Set сохраняет выдачу, если с момента Get кэш не сбрасывался.
func (cs *CacheService) Set(key string, generation uint64, gigs []*entity.Gig) bool {
	if cs.ttl <= 0 {
		return false
	}

	stored := make([]*entity.Gig, len(gigs))
	copy(stored, gigs)

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if generation != cs.generation {
		return false
	}

	cs.cache[key] = &cacheEntry{
		gigs:      stored,
		expiresAt: time.Now().Add(cs.ttl),
	}
	return true
}

// Invalidate удаляет все записи.
func (cs *CacheService) Invalidate() {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cs.generation++
	cs.cache = make(map[string]*cacheEntry)
}

func (cs *CacheService) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.cache)
}

// cleanup периодически удаляет просроченные записи.
func (cs *CacheService) cleanup(ctx context.Context) {
	interval := cs.ttl
	if interval <= 0 || interval > 5*time.Minute {
		interval = 5 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := cs.evictExpired(time.Now()); evicted > 0 {
				logger.Log.WithFields(logrus.Fields{
					"evicted":   evicted,
					"remaining": cs.Len(),
				}).Debug("cache service: просроченные записи удалены")
			}
		}
	}
}

func (cs *CacheService) evictExpired(now time.Time) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	evicted := 0
	for key, entry := range cs.cache {
		if now.After(entry.expiresAt) {
			delete(cs.cache, key)
			evicted++
		}
	}
	return evicted
}
