package texture

import (
	"encoding/binary"
	"image"
	"sync"

	"github.com/cespare/xxhash/v2"

	"bk-asset-codec/internal/model"
	"bk-asset-codec/internal/pixel"
)

// Cache is a concurrency-safe store of decoded textures keyed by content.
// Identical textures shared between models are decoded once.
type Cache struct {
	mu    sync.RWMutex
	items map[uint64]*cacheEntry
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

func NewCache() *Cache {
	return &Cache{items: make(map[uint64]*cacheEntry)}
}

// Key hashes texture i's header fields and pixel bytes.
func Key(tl *model.TextureList, i int) uint64 {
	h := tl.Textures[i]
	d := xxhash.New()
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(h.Format))
	hdr[2], hdr[3] = h.Width, h.Height
	d.Write(hdr[:])

	start := min(int(h.Offset), len(tl.Data))
	end := len(tl.Data)
	if h.Format.Known() {
		end = min(end, start+h.Format.DataLen(int(h.Width), int(h.Height)))
	}
	d.Write(tl.Data[start:end])
	return d.Sum64()
}

// Resolve decodes texture i, or returns the cached result. Decode failures
// are cached too. Returned images are shared and must not be modified.
func (c *Cache) Resolve(tl *model.TextureList, i int) (*image.NRGBA, error) {
	if i < 0 || i >= len(tl.Textures) {
		_, err := tl.Grid(i)
		return nil, err
	}
	key := Key(tl, i)

	// Fast path: read lock
	c.mu.RLock()
	if e, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return e.img, e.err
	}
	c.mu.RUnlock()

	e := &cacheEntry{}
	var g *pixel.Grid
	if g, e.err = tl.Grid(i); e.err == nil {
		e.img = ToNRGBA(g)
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.items[key]; ok {
		return prev.img, prev.err
	}
	c.items[key] = e
	return e.img, e.err
}

// Len returns the number of cached textures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
