package listsync

import "shipit/internal/model"

// collection is an insertion-ordered list of items deduplicated by Key.
type collection struct {
	items []model.Item
	index map[int64]int
}

func newCollection() *collection {
	return &collection{index: make(map[int64]int)}
}

func (c *collection) len() int { return len(c.items) }

func (c *collection) contains(key int64) bool {
	_, ok := c.index[key]
	return ok
}

// snapshot returns a copy safe to hand to callers.
func (c *collection) snapshot() []model.Item {
	out := make([]model.Item, len(c.items))
	copy(out, c.items)
	return out
}

// merge appends the items whose keys are not present yet and returns how many
// were added. Existing entries keep their position.
func (c *collection) merge(items []model.Item) int {
	added := 0
	for _, it := range items {
		if it == nil || c.contains(it.Key()) {
			continue
		}
		c.index[it.Key()] = len(c.items)
		c.items = append(c.items, it)
		added++
	}
	return added
}

// upsert replaces the entry with the same key in place, or appends it.
func (c *collection) upsert(it model.Item) {
	if i, ok := c.index[it.Key()]; ok {
		c.items[i] = it
		return
	}
	c.index[it.Key()] = len(c.items)
	c.items = append(c.items, it)
}

// replace swaps the entry with the same key in place. It reports whether an
// entry was found.
func (c *collection) replace(it model.Item) bool {
	i, ok := c.index[it.Key()]
	if ok {
		c.items[i] = it
	}
	return ok
}

// removeIf drops every item matching pred in a single pass, keeping the
// relative order of the rest, and returns how many were removed.
func (c *collection) removeIf(pred func(model.Item) bool) int {
	kept := c.items[:0]
	for _, it := range c.items {
		if !pred(it) {
			kept = append(kept, it)
		}
	}
	removed := len(c.items) - len(kept)
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = nil
	}
	c.items = kept
	c.reindex()
	return removed
}

func (c *collection) filter(pred func(model.Item) bool) []model.Item {
	var out []model.Item
	for _, it := range c.items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func (c *collection) reindex() {
	clear(c.index)
	for i, it := range c.items {
		c.index[it.Key()] = i
	}
}
