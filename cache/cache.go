////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

// Package cache implements the two-tier record cache: a fixed-capacity
// in-process tier in front of a persisted tier held as a single serialized
// blob. Entries expire after a freshness window and are evicted from the
// in-process tier in insertion order.
package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"

	jww "github.com/spf13/jwalterweatherman"

	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
)

const (
	// DefaultCapacity is the maximum number of entries held in the in-process
	// tier when no override is given.
	DefaultCapacity = 100

	// DefaultDuration is the freshness window applied when no override is
	// given.
	DefaultDuration = 24 * time.Hour

	// blobKey is the single key in the persisted store that holds the
	// serialized cache mapping.
	blobKey = "cache"
)

// Key-naming tags. Callers never build cache keys by hand; they go through
// EmojiKey and PackKey.
const (
	emojiTag = "emoji/"
	packTag  = "pack/"
)

// EmojiKey returns the cache key for an emoji record.
func EmojiKey(id string) string { return emojiTag + id }

// PackKey returns the cache key for an emoji pack.
func PackKey(name string) string { return packTag + name }

// Store is the persisted tier consumed by the cache. Writes are best effort;
// a Store that returns errors degrades the cache to memory-only operation.
type Store interface {
	GetItem(key string) ([]byte, error)
	SetItem(key string, value []byte) error
	RemoveItem(key string)
}

// entry wraps an in-process payload with its creation time. Entries are
// immutable; invalidation is by replacement or eviction.
type entry struct {
	value   any
	created time.Time
}

// persistedEntry is the serialized form of an entry in the persisted blob.
// Timestamp is in milliseconds since the Unix epoch.
type persistedEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// Cache is the two-tier emoji/pack cache. The in-process tier evicts in
// insertion order once capacity is exceeded; the persisted tier is written as
// one blob per mutation and swept once at construction.
type Cache struct {
	capacity int
	duration time.Duration
	store    Store

	entries map[string]entry
	order   []string

	// persisted mirrors the persisted tier. It is loaded once at construction
	// and written back whole on every mutation.
	persisted map[string]persistedEntry

	// now is replaceable for tests.
	now func() time.Time

	mux sync.Mutex
}

// New creates a Cache over the given persisted store. A nil store produces a
// memory-only cache. Non-positive duration or capacity select the defaults.
//
// Construction sweeps the persisted tier: entries already older than the
// freshness window are dropped and the cleaned blob is written back so stale
// entries cannot resurface on a later read.
func New(store Store, duration time.Duration, capacity int) *Cache {
	if duration <= 0 {
		duration = DefaultDuration
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &Cache{
		capacity:  capacity,
		duration:  duration,
		store:     store,
		entries:   make(map[string]entry),
		persisted: make(map[string]persistedEntry),
		now:       time.Now,
	}

	c.sweep()

	return c
}

// sweep loads the persisted blob, drops entries outside the freshness window,
// and persists the cleaned view.
func (c *Cache) sweep() {
	if c.store == nil {
		return
	}

	blob, err := c.store.GetItem(blobKey)
	if err != nil {
		// No persisted tier yet; nothing to sweep.
		return
	}

	if err = json.Unmarshal(blob, &c.persisted); err != nil {
		jww.WARN.Printf("Discarding unreadable cache blob: %+v", err)
		c.persisted = make(map[string]persistedEntry)
		c.store.RemoveItem(blobKey)
		return
	}

	swept := 0
	for key, pe := range c.persisted {
		if !c.fresh(pe.Timestamp) {
			delete(c.persisted, key)
			swept++
		}
	}

	if swept > 0 {
		jww.DEBUG.Printf("Swept %d expired entries from the persisted cache",
			swept)
		c.persist()
	}
}

// fresh reports whether a timestamp (ms) is within the freshness window.
func (c *Cache) fresh(timestampMS int64) bool {
	age := c.now().Sub(time.UnixMilli(timestampMS))
	return age < c.duration
}

// GetEmoji returns the cached record for the given emoji ID, if present and
// fresh in either tier.
func (c *Cache) GetEmoji(id string) (*emoji.Record, bool) {
	v, ok := c.get(EmojiKey(id))
	if !ok {
		return nil, false
	}
	rec, ok := v.(*emoji.Record)
	return rec, ok
}

// SetEmoji caches the given record in both tiers.
func (c *Cache) SetEmoji(rec *emoji.Record) {
	c.set(EmojiKey(rec.ID), rec)
}

// GetPack returns the cached pack with the given name, if present and fresh
// in either tier.
func (c *Cache) GetPack(name string) (*emoji.Pack, bool) {
	v, ok := c.get(PackKey(name))
	if !ok {
		return nil, false
	}
	p, ok := v.(*emoji.Pack)
	return p, ok
}

// SetPack caches the given pack in both tiers.
func (c *Cache) SetPack(p *emoji.Pack) {
	c.set(PackKey(p.Name), p)
}

// Len returns the number of entries in the in-process tier.
func (c *Cache) Len() int {
	c.mux.Lock()
	defer c.mux.Unlock()
	return len(c.entries)
}

// Clear empties both tiers.
func (c *Cache) Clear() {
	c.mux.Lock()
	defer c.mux.Unlock()

	c.entries = make(map[string]entry)
	c.order = nil
	c.persisted = make(map[string]persistedEntry)
	if c.store != nil {
		c.store.RemoveItem(blobKey)
	}
}

// get checks the in-process tier first and falls back to the persisted tier,
// promoting a fresh persisted entry into the in-process tier. Stale entries
// are treated as absent but are not proactively deleted; deletion happens
// only via eviction and the construction sweep.
func (c *Cache) get(key string) (any, bool) {
	c.mux.Lock()
	defer c.mux.Unlock()

	if e, exists := c.entries[key]; exists {
		if c.now().Sub(e.created) < c.duration {
			return e.value, true
		}
		return nil, false
	}

	pe, exists := c.persisted[key]
	if !exists || !c.fresh(pe.Timestamp) {
		return nil, false
	}

	value, err := decode(key, pe.Data)
	if err != nil {
		jww.WARN.Printf("Dropping undecodable cache entry %q: %+v", key, err)
		return nil, false
	}

	// Read-through promotion keeps the original creation time.
	c.insert(key, entry{value: value, created: time.UnixMilli(pe.Timestamp)})

	return value, true
}

// set writes the value to both tiers, stamped with the current time.
func (c *Cache) set(key string, value any) {
	c.mux.Lock()
	defer c.mux.Unlock()

	now := c.now()
	c.insert(key, entry{value: value, created: now})

	if c.store == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		jww.WARN.Printf("Cannot persist cache entry %q: %+v", key, err)
		return
	}
	c.persisted[key] = persistedEntry{Data: data, Timestamp: now.UnixMilli()}
	c.persist()
}

// insert adds an entry to the in-process tier and evicts the oldest-inserted
// keys until the tier is at or under capacity. Overwriting an existing key
// keeps its position in the insertion order.
func (c *Cache) insert(key string, e entry) {
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = e

	for len(c.entries) > c.capacity {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
		jww.TRACE.Printf("Evicted cache entry %q", oldest)
	}
}

// persist writes the whole persisted mirror back to the store. Failures are
// logged and swallowed; the cache degrades to memory-only for the entry.
func (c *Cache) persist() {
	blob, err := json.Marshal(c.persisted)
	if err != nil {
		jww.WARN.Printf("Cannot serialize cache blob: %+v", err)
		return
	}
	if err = c.store.SetItem(blobKey, blob); err != nil {
		jww.WARN.Printf("Cannot write cache blob to storage: %+v", err)
	}
}

// decode unmarshals a persisted payload into the type implied by the key tag.
func decode(key string, data json.RawMessage) (any, error) {
	if strings.HasPrefix(key, packTag) {
		p := &emoji.Pack{}
		return p, json.Unmarshal(data, p)
	}
	rec := &emoji.Record{}
	return rec, json.Unmarshal(data, rec)
}
