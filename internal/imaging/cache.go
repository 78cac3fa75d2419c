package imaging

import (
	"image"
	"sync"
)

// PageKey identifies one rendering of a document page.
type PageKey struct {
	Path  string
	Page  int
	Scale float64
}

// RenderFunc produces the raster for a cache miss.
type RenderFunc func() (image.Image, error)

// PageCache keeps rendered page rasters so that repeated requests for the same
// page and scale skip rasterization.
//
// PageCache is safe for concurrent use by multiple goroutines. Rasters remain
// in memory until their document is removed with Evict.
type PageCache struct {
	mu     sync.RWMutex
	images map[PageKey]image.Image
}

// NewPageCache creates an empty cache.
func NewPageCache() *PageCache {
	return &PageCache{
		images: make(map[PageKey]image.Image),
	}
}

// Load returns the cached raster for key, calling render on a miss.
//
// Parameters:
//   - key: Document path, 1-based page number and rasterization scale
//   - render: Produces the raster when key is not cached
//
// Returns:
//   - image.Image: The cached or freshly rendered raster; callers must not
//     modify it
//   - error: The error from render. Failed renders are not cached, so the
//     next Load for the same key calls render again
//
// Two goroutines missing on the same key may both render; the last one to
// finish is kept.
//
// # Example Usage
//
//	cache := imaging.NewPageCache()
//	key := imaging.PageKey{Path: "set.pdf", Page: 3, Scale: 2}
//	img, err := cache.Load(key, func() (image.Image, error) {
//	    return page.Render(2)
//	})
func (c *PageCache) Load(key PageKey, render RenderFunc) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[key]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	img, err := render()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.images[key] = img
	c.mu.Unlock()

	return img, nil
}

// Len returns the number of cached rasters.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Evict removes every raster rendered from path. The server calls it when the
// file at path has changed since its pages were cached.
func (c *PageCache) Evict(path string) {
	c.mu.Lock()
	for k := range c.images {
		if k.Path == path {
			delete(c.images, k)
		}
	}
	c.mu.Unlock()
}
