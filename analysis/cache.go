package analysis

import (
	"sync"
	"time"

	"github.com/benmab17/mbongi-agents/models"
)

type cacheKey struct {
	windowHours int
	limit       int
}

type cacheEntry struct {
	signaux []models.SignalFaible
	expire  time.Time
}

// resultCache mémorise brièvement les résultats d'une passe, clé par
// (fenêtre, limite), pour absorber les rafraîchissements concurrents du
// tableau de bord. La justesse ne dépend jamais du cache : une entrée expirée
// déclenche simplement un recalcul complet.
type resultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entrees map[cacheKey]cacheEntry
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		ttl:     ttl,
		entrees: make(map[cacheKey]cacheEntry),
	}
}

func (c *resultCache) get(key cacheKey, now time.Time) ([]models.SignalFaible, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entree, ok := c.entrees[key]
	if !ok || now.After(entree.expire) {
		return nil, false
	}
	return entree.signaux, true
}

func (c *resultCache) put(key cacheKey, signaux []models.SignalFaible, now time.Time) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entrees[key] = cacheEntry{signaux: signaux, expire: now.Add(c.ttl)}
}
