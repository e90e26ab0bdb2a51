package predictor

import (
	"container/list"
	"hash/maphash"
	"sync"

	"github.com/phishguard/phishguard/internal/model"
)

// cacheShards is the shard count. Must be a power of two so the shard can
// be selected by masking the key hash.
const cacheShards = 16

type cacheEntry struct {
	key        string
	prediction model.Prediction
}

type cacheShard struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
	capacity int
}

// verdictCache is a sharded LRU over URL verdicts. Extraction and scoring
// are pure, so a cached prediction is valid for the lifetime of the loaded
// model; the cache holds no expiry, only a size bound.
type verdictCache struct {
	shards [cacheShards]*cacheShard
	seed   maphash.Seed
}

func newVerdictCache(capacity int) *verdictCache {
	c := &verdictCache{seed: maphash.MakeSeed()}

	shardCap := capacity / cacheShards
	if shardCap < 1 {
		shardCap = 1
	}
	for i := range c.shards {
		c.shards[i] = &cacheShard{
			items:    make(map[string]*list.Element),
			order:    list.New(),
			capacity: shardCap,
		}
	}
	return c
}

func (c *verdictCache) shard(key string) *cacheShard {
	var h maphash.Hash
	h.SetSeed(c.seed)
	h.WriteString(key)
	return c.shards[h.Sum64()&(cacheShards-1)]
}

func (c *verdictCache) get(key string) (model.Prediction, bool) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return model.Prediction{}, false
	}
	s.order.MoveToFront(el)
	return el.Value.(*cacheEntry).prediction, true
}

func (c *verdictCache) add(key string, p model.Prediction) {
	s := c.shard(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		s.order.MoveToFront(el)
		el.Value.(*cacheEntry).prediction = p
		return
	}

	if s.order.Len() >= s.capacity {
		if oldest := s.order.Back(); oldest != nil {
			s.order.Remove(oldest)
			delete(s.items, oldest.Value.(*cacheEntry).key)
		}
	}
	s.items[key] = s.order.PushFront(&cacheEntry{key: key, prediction: p})
}

func (c *verdictCache) len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.Lock()
		n += s.order.Len()
		s.mu.Unlock()
	}
	return n
}
