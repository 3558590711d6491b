package application

import (
	"strings"
	"sync"
	"time"

	"github.com/example/resource-planner/internal/dateutil"
	"github.com/example/resource-planner/internal/planner"
)

// ConflictCache stores recently computed conflicts to avoid rerunning the
// detector for identical window queries while allocations remain unchanged.
// Any allocation mutation invalidates the whole cache.
type ConflictCache struct {
	mu         sync.RWMutex
	now        func() time.Time
	ttl        time.Duration
	maxEntries int
	entries    map[string]conflictCacheEntry
}

type conflictCacheEntry struct {
	conflicts []planner.Conflict
	expiresAt time.Time
}

// NewConflictCache builds a cache holding conflicts for ttl, capped at
// maxEntries. Non-positive arguments fall back to 30 seconds and 128 entries;
// a nil now uses the wall clock.
func NewConflictCache(ttl time.Duration, maxEntries int, now func() time.Time) *ConflictCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if maxEntries <= 0 {
		maxEntries = 128
	}
	if now == nil {
		now = time.Now
	}
	return &ConflictCache{
		now:        now,
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]conflictCacheEntry),
	}
}

// Get returns the cached conflicts for key. Expired entries are dropped and
// reported as misses. The returned slice is a copy.
func (c *ConflictCache) Get(key string) ([]planner.Conflict, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return cloneConflicts(entry.conflicts), true
}

// Store caches the conflicts under key, evicting an arbitrary entry when the
// cache is full.
func (c *ConflictCache) Store(key string, conflicts []planner.Conflict) {
	if c == nil {
		return
	}
	cloned := cloneConflicts(conflicts)
	expiry := c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanupLocked()
	if len(c.entries) >= c.maxEntries {
		c.evictOneLocked()
	}
	c.entries[key] = conflictCacheEntry{conflicts: cloned, expiresAt: expiry}
}

// Invalidate drops every entry. Called after any allocation mutation.
func (c *ConflictCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.entries = make(map[string]conflictCacheEntry)
	c.mu.Unlock()
}

func (c *ConflictCache) cleanupLocked() {
	now := c.now()
	for key, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, key)
		}
	}
}

func (c *ConflictCache) evictOneLocked() {
	for key := range c.entries {
		delete(c.entries, key)
		return
	}
}

func cloneConflicts(conflicts []planner.Conflict) []planner.Conflict {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]planner.Conflict, len(conflicts))
	copy(out, conflicts)
	return out
}

func conflictCacheKey(window dateutil.Range, employeeID string) string {
	builder := strings.Builder{}
	builder.WriteString(dateutil.FormatDay(window.Start))
	builder.WriteString("|")
	builder.WriteString(dateutil.FormatDay(window.End))
	builder.WriteString("|")
	builder.WriteString(employeeID)
	return builder.String()
}
