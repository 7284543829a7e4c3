package registry

import "github.com/morezero/siyuan-bridge/pkg/opkey"

// collection is an insertion-ordered set of definitions of a single kind.
// It is not safe for concurrent use; Registry guards it.
type collection struct {
	order []opkey.Key
	defs  map[opkey.Key]Definition
}

func newCollection() *collection {
	return &collection{defs: make(map[opkey.Key]Definition)}
}

// put inserts or replaces def. A replaced key keeps its original position.
func (c *collection) put(def Definition) (replaced bool) {
	key := def.Key()
	if _, ok := c.defs[key]; !ok {
		c.order = append(c.order, key)
	} else {
		replaced = true
	}
	c.defs[key] = def
	return replaced
}

func (c *collection) get(key opkey.Key) (Definition, bool) {
	def, ok := c.defs[key]
	return def, ok
}

func (c *collection) all() []Definition {
	out := make([]Definition, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.defs[key])
	}
	return out
}

func (c *collection) len() int { return len(c.order) }
