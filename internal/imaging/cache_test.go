package imaging

import (
	"errors"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"testing"
)

func countingRender(calls *int32) RenderFunc {
	return func() (image.Image, error) {
		atomic.AddInt32(calls, 1)
		return createInMemoryImage(10, 10, color.White), nil
	}
}

func TestNewPageCache(t *testing.T) {
	cache := NewPageCache()
	if cache == nil {
		t.Fatal("NewPageCache returned nil")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache should be empty, got %d entries", cache.Len())
	}
}

func TestPageCache_Load(t *testing.T) {
	cache := NewPageCache()
	var calls int32
	key := PageKey{Path: "a.pdf", Page: 1, Scale: 1.0}

	first, err := cache.Load(key, countingRender(&calls))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	second, err := cache.Load(key, countingRender(&calls))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if first != second {
		t.Error("second Load should return the cached raster")
	}
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
}

func TestPageCache_KeyIncludesScale(t *testing.T) {
	cache := NewPageCache()
	var calls int32

	cache.Load(PageKey{Path: "a.pdf", Page: 1, Scale: 1.0}, countingRender(&calls))
	cache.Load(PageKey{Path: "a.pdf", Page: 1, Scale: 2.0}, countingRender(&calls))
	cache.Load(PageKey{Path: "a.pdf", Page: 2, Scale: 1.0}, countingRender(&calls))

	if calls != 3 || cache.Len() != 3 {
		t.Errorf("expected 3 distinct entries, got calls=%d len=%d", calls, cache.Len())
	}
}

func TestPageCache_ErrorNotCached(t *testing.T) {
	cache := NewPageCache()
	key := PageKey{Path: "bad.pdf", Page: 1, Scale: 1.0}
	renderErr := errors.New("render failed")

	_, err := cache.Load(key, func() (image.Image, error) { return nil, renderErr })
	if !errors.Is(err, renderErr) {
		t.Fatalf("expected render error, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed render should not be cached")
	}
}

func TestPageCache_Evict(t *testing.T) {
	cache := NewPageCache()
	var calls int32

	cache.Load(PageKey{Path: "a.pdf", Page: 1, Scale: 1}, countingRender(&calls))
	cache.Load(PageKey{Path: "a.pdf", Page: 2, Scale: 1}, countingRender(&calls))
	cache.Load(PageKey{Path: "b.pdf", Page: 1, Scale: 1}, countingRender(&calls))

	cache.Evict("a.pdf")
	if cache.Len() != 1 {
		t.Errorf("after Evict: %d entries, want 1", cache.Len())
	}

	cache.Evict("missing.pdf")
	if cache.Len() != 1 {
		t.Errorf("evicting an unknown path changed the cache")
	}

	if _, err := cache.Load(PageKey{Path: "a.pdf", Page: 1, Scale: 1}, countingRender(&calls)); err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if atomic.LoadInt32(&calls) != 4 {
		t.Errorf("evicted page should render again, render calls = %d", calls)
	}
}

func TestPageCache_ConcurrentAccess(t *testing.T) {
	cache := NewPageCache()
	var calls int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := PageKey{Path: "a.pdf", Page: i % 4, Scale: 1}
			if _, err := cache.Load(key, countingRender(&calls)); err != nil {
				t.Errorf("concurrent Load failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() != 4 {
		t.Errorf("expected 4 entries, got %d", cache.Len())
	}
}
