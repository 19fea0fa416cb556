// Package catalog holds the shared, read-mostly game item catalog and the
// reward tier table.
package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/wearedood/base-gaming-sdk-unity/models"
)

// Loader supplies the catalog and tier table at startup.
type Loader interface {
	LoadItems(ctx context.Context) ([]models.GameItem, error)
	LoadRewardTiers(ctx context.Context) ([]models.RewardTier, error)
}

type entry struct {
	mu   sync.Mutex
	item models.GameItem
}

// Catalog is fixed in membership after construction; only an item's demand
// changes, under that item's own lock.
type Catalog struct {
	entries map[string]*entry
}

func New(items []models.GameItem) *Catalog {
	c := &Catalog{entries: make(map[string]*entry, len(items))}
	for _, item := range items {
		item.Attributes = item.Attributes.Clone()
		if item.DemandSteps == 0 {
			item.DemandSteps = DemandSteps(item.DemandMultiplier)
		}
		item.DemandMultiplier = DemandMultiplier(item.DemandSteps)
		c.entries[item.ID] = &entry{item: item}
	}
	return c
}

func (c *Catalog) Get(id string) (models.GameItem, bool) {
	e, ok := c.entries[id]
	if !ok {
		return models.GameItem{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	item := e.item
	item.Attributes = item.Attributes.Clone()
	return item, true
}

func (c *Catalog) List() []models.GameItem {
	items := make([]models.GameItem, 0, len(c.entries))
	for id := range c.entries {
		item, _ := c.Get(id)
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// WithItem runs fn with exclusive access to the item. Changes fn makes to
// the item are kept only when fn returns nil.
func (c *Catalog) WithItem(id string, fn func(item *models.GameItem) error) error {
	e, ok := c.entries[id]
	if !ok {
		return models.ErrItemNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	working := e.item
	if err := fn(&working); err != nil {
		return err
	}

	e.item.DemandSteps = working.DemandSteps
	e.item.DemandMultiplier = working.DemandMultiplier
	return nil
}

// DemandMultipliers returns the current multiplier of every item.
func (c *Catalog) DemandMultipliers() map[string]float64 {
	out := make(map[string]float64, len(c.entries))
	for id, e := range c.entries {
		e.mu.Lock()
		out[id] = e.item.DemandMultiplier
		e.mu.Unlock()
	}
	return out
}
