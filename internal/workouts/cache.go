package workouts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coocood/freecache"
)

const minCacheSizeBytes = 512 * 1024

// Cache holds the session views per workout date, JSON encoded in freecache.
// Every write stores a sorted copy, so readers never share slices with it.
// Read-modify-write sequences are not atomic; the Aggregator serializes them.
type Cache struct {
	store *freecache.Cache
}

func NewCache(sizeBytes int) *Cache {
	if sizeBytes < minCacheSizeBytes {
		sizeBytes = minCacheSizeBytes
	}
	return &Cache{
		store: freecache.NewCache(sizeBytes),
	}
}

// Get returns the cached sessions for date, and whether the date was cached at all.
func (c *Cache) Get(date string) ([]SessionView, bool) {
	raw, err := c.store.Get([]byte(date))
	if err != nil {
		return nil, false
	}

	var sessions []SessionView
	if err := json.Unmarshal(raw, &sessions); err != nil {
		// corrupted entry, treat as missing
		c.store.Del([]byte(date))
		return nil, false
	}

	return sessions, true
}

// Replace overwrites the entry for date.
func (c *Cache) Replace(date string, sessions []SessionView) error {
	cp := cloneSessions(sessions)
	if cp == nil {
		cp = []SessionView{}
	}
	sortSessions(cp)

	raw, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("encode sessions for %s: %w", date, err)
	}
	if err := c.store.Set([]byte(date), raw, 0); err != nil {
		// never leave an outdated entry behind
		c.store.Del([]byte(date))
		return fmt.Errorf("cache sessions for %s: %w", date, err)
	}

	return nil
}

// AppendSession adds session to the entry for date, creating the entry if absent.
func (c *Cache) AppendSession(date string, session SessionView) error {
	sessions, _ := c.Get(date)
	return c.Replace(date, append(sessions, session))
}

// RemoveSession drops the session from the entry for date. A date that is not
// cached stays uncached.
func (c *Cache) RemoveSession(date string, sessionID int) error {
	return c.update(date, func(sessions []SessionView) []SessionView {
		kept := sessions[:0]
		for _, s := range sessions {
			if s.ID != sessionID {
				kept = append(kept, s)
			}
		}
		return kept
	})
}

func (c *Cache) AppendSet(date string, sessionID int, set SetView) error {
	return c.update(date, func(sessions []SessionView) []SessionView {
		for i := range sessions {
			if sessions[i].ID == sessionID {
				sessions[i].Sets = append(sessions[i].Sets, set)
			}
		}
		return sessions
	})
}

// RemoveSet drops the set; the session is kept even when left without sets.
func (c *Cache) RemoveSet(date string, sessionID, setID int) error {
	return c.update(date, func(sessions []SessionView) []SessionView {
		for i := range sessions {
			if sessions[i].ID != sessionID {
				continue
			}
			kept := make([]SetView, 0, len(sessions[i].Sets))
			for _, set := range sessions[i].Sets {
				if set.ID != setID {
					kept = append(kept, set)
				}
			}
			sessions[i].Sets = kept
		}
		return sessions
	})
}

// PatchSet merges only the fields present in upd into the cached set.
func (c *Cache) PatchSet(date string, sessionID, setID int, upd SetUpdate) error {
	return c.update(date, func(sessions []SessionView) []SessionView {
		for i := range sessions {
			if sessions[i].ID != sessionID {
				continue
			}
			for j := range sessions[i].Sets {
				if sessions[i].Sets[j].ID == setID {
					sessions[i].Sets[j] = upd.Apply(sessions[i].Sets[j])
				}
			}
		}
		return sessions
	})
}

func (c *Cache) Invalidate(date string) {
	c.store.Del([]byte(date))
}

func (c *Cache) Clear() {
	c.store.Clear()
}

func (c *Cache) update(date string, fn func([]SessionView) []SessionView) error {
	sessions, ok := c.Get(date)
	if !ok {
		return nil
	}
	return c.Replace(date, fn(sessions))
}

// IsCacheFull reports whether err means the entry did not fit into the cache.
func IsCacheFull(err error) bool {
	return errors.Is(err, freecache.ErrLargeEntry) || errors.Is(err, freecache.ErrLargeKey)
}
