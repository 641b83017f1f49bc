// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import lru "github.com/hashicorp/golang-lru/v2"

// AnnounceCache deduplicates inbound transaction-hash announcements so a
// gossiping peer can't make the pool redo full admission work for a hash it
// has already seen, whether or not that hash is still pending.
type AnnounceCache interface {
	// TryEvict reports whether hash was newly seen (true) or already
	// present (false), marking it seen either way.
	TryEvict(hash Hash) bool
}

type lruAnnounceCache struct {
	cache *lru.Cache[Hash, struct{}]
}

// NewAnnounceCache builds an LRU-bounded AnnounceCache sized to capacity.
func NewAnnounceCache(capacity int) AnnounceCache {
	cache, _ := lru.New[Hash, struct{}](capacity)
	return &lruAnnounceCache{cache: cache}
}

func (c *lruAnnounceCache) TryEvict(hash Hash) bool {
	if c.cache.Contains(hash) {
		return false
	}
	c.cache.Add(hash, struct{}{})
	return true
}
