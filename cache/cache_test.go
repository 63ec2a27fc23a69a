////////////////////////////////////////////////////////////////////////////////
// Copyright © 2024 TMoji Web contributors                                    //
//                                                                            //
// Use of this source code is governed by a license that can be found in the  //
// LICENSE file.                                                              //
////////////////////////////////////////////////////////////////////////////////

package cache

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/CORBENDALLAS111/Tmoji-Web/emoji"
)

// mapStore is an in-memory Store used in place of browser local storage.
type mapStore struct {
	m map[string][]byte
}

func newMapStore() *mapStore { return &mapStore{m: make(map[string][]byte)} }

func (s *mapStore) GetItem(key string) ([]byte, error) {
	v, exists := s.m[key]
	if !exists {
		return nil, os.ErrNotExist
	}
	return v, nil
}

func (s *mapStore) SetItem(key string, value []byte) error {
	s.m[key] = value
	return nil
}

func (s *mapStore) RemoveItem(key string) { delete(s.m, key) }

func testRecord(id string) *emoji.Record {
	return &emoji.Record{ID: id, ShortName: "grin", FileType: emoji.PNG}
}

// Tests that a record set into the cache is returned by GetEmoji and that an
// unknown ID is a miss.
func TestCache_SetEmoji_GetEmoji(t *testing.T) {
	c := New(newMapStore(), 0, 0)

	expected := testRecord("5100")
	c.SetEmoji(expected)

	received, exists := c.GetEmoji("5100")
	if !exists {
		t.Fatalf("GetEmoji did not find stored record %q.", expected.ID)
	}
	if received.ID != expected.ID || received.ShortName != expected.ShortName {
		t.Errorf("Unexpected record.\nexpected: %+v\nreceived: %+v",
			expected, received)
	}

	if _, exists = c.GetEmoji("unknown"); exists {
		t.Error("GetEmoji returned a record for an ID never stored.")
	}
}

// Tests that an entry is a hit just inside the freshness window and a miss
// once its age reaches the window.
func TestCache_Freshness(t *testing.T) {
	c := New(nil, time.Second, 0)

	start := time.Now()
	c.now = func() time.Time { return start }
	c.SetEmoji(testRecord("77"))

	c.now = func() time.Time { return start.Add(999 * time.Millisecond) }
	if _, exists := c.GetEmoji("77"); !exists {
		t.Error("Entry expired before the freshness window elapsed.")
	}

	c.now = func() time.Time { return start.Add(time.Second) }
	if _, exists := c.GetEmoji("77"); exists {
		t.Error("Entry still fresh at the freshness window boundary.")
	}
}

// Tests that the in-process tier evicts the oldest-inserted entry once
// capacity is exceeded and that overwriting a key does not change its
// position in the insertion order.
func TestCache_Eviction(t *testing.T) {
	c := New(nil, 0, 3)

	c.SetEmoji(testRecord("1"))
	c.SetEmoji(testRecord("2"))
	c.SetEmoji(testRecord("3"))

	// Overwrite the oldest key; it must keep its position.
	c.SetEmoji(testRecord("1"))

	c.SetEmoji(testRecord("4"))

	if c.Len() != 3 {
		t.Errorf("Unexpected cache size.\nexpected: %d\nreceived: %d",
			3, c.Len())
	}
	if _, exists := c.GetEmoji("1"); exists {
		t.Error("Oldest-inserted entry was not evicted.")
	}
	for _, id := range []string{"2", "3", "4"} {
		if _, exists := c.GetEmoji(id); !exists {
			t.Errorf("Entry %q was evicted out of insertion order.", id)
		}
	}
}

// Tests that construction drops expired entries from the persisted blob and
// writes the cleaned blob back to the store.
func TestNew_Sweep(t *testing.T) {
	store := newMapStore()
	now := time.Now()

	fresh, _ := json.Marshal(testRecord("fresh"))
	stale, _ := json.Marshal(testRecord("stale"))
	blob, _ := json.Marshal(map[string]persistedEntry{
		EmojiKey("fresh"): {Data: fresh, Timestamp: now.UnixMilli()},
		EmojiKey("stale"): {
			Data:      stale,
			Timestamp: now.Add(-48 * time.Hour).UnixMilli(),
		},
	})
	_ = store.SetItem(blobKey, blob)

	c := New(store, 24*time.Hour, 0)

	if _, exists := c.GetEmoji("fresh"); !exists {
		t.Error("Fresh persisted entry was swept.")
	}
	if _, exists := c.GetEmoji("stale"); exists {
		t.Error("Expired persisted entry survived the sweep.")
	}

	cleaned, err := store.GetItem(blobKey)
	if err != nil {
		t.Fatalf("Cleaned blob was not written back: %+v", err)
	}
	var persisted map[string]persistedEntry
	if err = json.Unmarshal(cleaned, &persisted); err != nil {
		t.Fatalf("Cannot unmarshal cleaned blob: %+v", err)
	}
	if _, exists := persisted[EmojiKey("stale")]; exists {
		t.Error("Expired entry remains in the persisted blob after sweep.")
	}
}

// Tests that a fresh persisted entry is promoted into the in-process tier on
// read.
func TestCache_Promotion(t *testing.T) {
	store := newMapStore()
	now := time.Now()

	data, _ := json.Marshal(testRecord("9000"))
	blob, _ := json.Marshal(map[string]persistedEntry{
		EmojiKey("9000"): {Data: data, Timestamp: now.UnixMilli()},
	})
	_ = store.SetItem(blobKey, blob)

	c := New(store, 0, 0)

	if c.Len() != 0 {
		t.Fatalf("In-process tier not empty before first read: %d", c.Len())
	}

	rec, exists := c.GetEmoji("9000")
	if !exists {
		t.Fatal("Persisted entry was not served.")
	}
	if rec.ID != "9000" {
		t.Errorf("Unexpected record ID.\nexpected: %q\nreceived: %q",
			"9000", rec.ID)
	}
	if c.Len() != 1 {
		t.Errorf("Persisted entry was not promoted.\nexpected: %d"+
			"\nreceived: %d", 1, c.Len())
	}
}

// Tests that an unreadable persisted blob is discarded and removed from the
// store instead of poisoning the cache.
func TestNew_CorruptBlob(t *testing.T) {
	store := newMapStore()
	_ = store.SetItem(blobKey, []byte("not json"))

	c := New(store, 0, 0)

	if c.Len() != 0 {
		t.Errorf("Corrupt blob produced entries: %d", c.Len())
	}
	if _, err := store.GetItem(blobKey); err == nil {
		t.Error("Corrupt blob was not removed from the store.")
	}
}

// Tests that packs and records round-trip through the persisted tier with
// their own types.
func TestCache_PackPersistence(t *testing.T) {
	store := newMapStore()
	c := New(store, 0, 0)

	c.SetPack(&emoji.Pack{Name: "cats", Title: "Cats",
		Stickers: []emoji.Record{*testRecord("1")}})

	// A second cache over the same store reads through to the persisted tier.
	c2 := New(store, 0, 0)
	p, exists := c2.GetPack("cats")
	if !exists {
		t.Fatal("Pack did not survive the persisted tier.")
	}
	if p.Title != "Cats" || len(p.Stickers) != 1 {
		t.Errorf("Unexpected pack.\nexpected: %+v\nreceived: %+v",
			"Cats/1 sticker", p)
	}
}

// Tests that Clear empties both tiers.
func TestCache_Clear(t *testing.T) {
	store := newMapStore()
	c := New(store, 0, 0)

	c.SetEmoji(testRecord("1"))
	c.SetPack(&emoji.Pack{Name: "cats"})

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("In-process tier not empty after Clear: %d", c.Len())
	}
	if _, exists := c.GetEmoji("1"); exists {
		t.Error("Record survived Clear.")
	}
	if _, err := store.GetItem(blobKey); err == nil {
		t.Error("Persisted blob survived Clear.")
	}
}

// Tests the key-naming tags.
func TestKeys(t *testing.T) {
	if EmojiKey("42") != "emoji/42" {
		t.Errorf("Unexpected emoji key.\nexpected: %q\nreceived: %q",
			"emoji/42", EmojiKey("42"))
	}
	if PackKey("cats") != "pack/cats" {
		t.Errorf("Unexpected pack key.\nexpected: %q\nreceived: %q",
			"pack/cats", PackKey("cats"))
	}
}
