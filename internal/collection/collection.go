// Package collection holds the in-memory projection of scanned items that
// the scan workflow writes to and the aggregation layer reads from. Items
// are partitioned by folder identity and kept most-recent-first.
package collection

import (
	"sync"

	"smart-cart-backend/internal/model"
)

// Collection is safe for concurrent use; a mutex guards the item slice so
// that appends from the scan workflow and the ingestion listener never
// interleave with reads.
type Collection struct {
	mu    sync.RWMutex
	items []model.ScannedItem
}

// New creates an empty collection.
func New() *Collection {
	return &Collection{}
}

// Append adds one item at the front, making it immediately visible to
// subsequent reads.
func (c *Collection) Append(item model.ScannedItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]model.ScannedItem{item}, c.items...)
}

// All returns a copy of the full item set, most recent first.
func (c *Collection) All() []model.ScannedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.ScannedItem, len(c.items))
	copy(out, c.items)
	return out
}

// ForFolder returns the items whose folder id equals the given id, in
// most-recent-first order. Matching is exact; items from other folders are
// never included.
func (c *Collection) ForFolder(folderID string) []model.ScannedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.ScannedItem
	for _, item := range c.items {
		if item.FolderID == folderID {
			out = append(out, item)
		}
	}
	return out
}

// Remove deletes the item with the given id. Removing an absent id is a
// no-op.
func (c *Collection) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// ReplaceFolder swaps one folder's partition for the given item set,
// leaving other folders' items untouched. Used when a folder's items are
// reloaded from the item store.
func (c *Collection) ReplaceFolder(folderID string, items []model.ScannedItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := make([]model.ScannedItem, 0, len(c.items)+len(items))
	kept = append(kept, items...)
	for _, item := range c.items {
		if item.FolderID != folderID {
			kept = append(kept, item)
		}
	}
	c.items = kept
}

// Clear empties the whole collection. Used on sign-out.
func (c *Collection) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Len reports the total number of items across all folders.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
