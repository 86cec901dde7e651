// SPDX-License-Identifier: MPL-2.0

package loader

// Cache resolves each loader reference once and hands out the same Loader
// afterwards. A Cache belongs to one compilation.
type Cache struct {
	opener  Opener
	loaders map[string]Loader
	opens   map[string]int
}

// NewCache returns an empty cache resolving references with o.
func NewCache(o Opener) *Cache {
	return &Cache{
		opener:  o,
		loaders: make(map[string]Loader),
		opens:   make(map[string]int),
	}
}

// Get returns the loader for ref, opening it on first use.
func (c *Cache) Get(ref string) (Loader, error) {
	if l, ok := c.loaders[ref]; ok {
		return l, nil
	}
	c.opens[ref]++
	l, err := c.opener.Open(ref)
	if err != nil {
		return nil, err
	}
	c.loaders[ref] = l
	return l, nil
}

// Opens returns how many times ref was resolved.
func (c *Cache) Opens(ref string) int {
	return c.opens[ref]
}

// Len returns the number of cached loaders.
func (c *Cache) Len() int {
	return len(c.loaders)
}
