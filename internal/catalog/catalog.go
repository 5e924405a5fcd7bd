// Package catalog manages the user's persistent list of document references.
//
// The persisted form is a JSON array of {location} records under a single
// key in the preferences store. The whole snapshot is rewritten on every
// mutation; catalogs are small, user-curated lists.
package catalog

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/book-expert/logger"
	"github.com/oklog/ulid/v2"

	"github.com/noveltts/noveltts/internal/kv"
)

// StoreKey is the single preferences-store key holding the document list.
const StoreKey = "catalog/documents"

// Entry is one known document. ID is runtime-only: a fresh one is generated
// for every entry on each Load, so identity does not survive a restart.
type Entry struct {
	ID       string
	Location string
}

// Title derives the display title from the location: last path segment with
// the extension stripped.
func (e Entry) Title() string {
	base := filepath.Base(e.Location)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// record is the serializable projection of an Entry.
type record struct {
	Location string `json:"location"`
}

// Catalog is the ordered in-memory document list plus its persistence.
type Catalog struct {
	mu      sync.Mutex
	store   kv.Store
	log     *logger.Logger
	entries []Entry
}

// New creates a Catalog over the given store. Call Load to populate it.
func New(store kv.Store, log *logger.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

// Load reads the persisted record list and rebuilds the entry sequence with
// fresh IDs. It fails soft: an absent or corrupt store yields an empty
// catalog, and individual corrupt records are dropped rather than failing
// the whole load.
func (c *Catalog) Load() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil

	data, err := c.store.Get(StoreKey)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			c.log.Warn("catalog: load failed, starting empty: %v", err)
		}
		return nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		c.log.Warn("catalog: persisted list unreadable, starting empty: %v", err)
		return nil
	}

	for _, r := range records {
		if r.Location == "" {
			c.log.Warn("catalog: dropping record with empty location")
			continue
		}
		c.entries = append(c.entries, Entry{ID: newID(), Location: r.Location})
	}

	return c.snapshot()
}

// Entries returns a copy of the current ordered sequence.
func (c *Catalog) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

// Append adds a document to the end of the catalog and persists the full
// sequence.
func (c *Catalog) Append(location string) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := Entry{ID: newID(), Location: location}
	c.entries = append(c.entries, entry)
	if err := c.persist(); err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Remove deletes the entry with the given id, preserving the relative order
// of the survivors, and persists. Removing an unknown id is a no-op.
func (c *Catalog) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.entries {
		if e.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// Clear empties the catalog and removes the persisted key entirely. This is
// distinct from persisting an empty list.
func (c *Catalog) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	if err := c.store.Delete(StoreKey); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return nil
}

func (c *Catalog) persist() error {
	records := make([]record, len(c.entries))
	for i, e := range c.entries {
		records[i] = record{Location: e.Location}
	}

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := c.store.Set(StoreKey, data); err != nil {
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

func (c *Catalog) snapshot() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func newID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
