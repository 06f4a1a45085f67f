package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// tombstoneTTL bounds how long a confirmed delete keeps filtering list
// responses. It must exceed the longest request a list can take.
const tombstoneTTL = 5 * time.Minute

// tombstones remembers ids whose deletion the server confirmed, together
// with the last list sequence number issued before the confirmation. A list
// response with a sequence number at or below that value predates the
// delete and must not bring the id back.
type tombstones struct {
	c *cache.Cache
}

func newTombstones() *tombstones {
	return &tombstones{c: cache.New(tombstoneTTL, 2*tombstoneTTL)}
}

func (t *tombstones) bury(id string, seq uint64) {
	t.c.SetDefault(id, seq)
}

// hides reports whether a list response with sequence seq must skip id.
func (t *tombstones) hides(id string, seq uint64) bool {
	v, ok := t.c.Get(id)
	if !ok {
		return false
	}
	return seq <= v.(uint64)
}
