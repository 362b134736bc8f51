package render

import "sync"

// TilePool reuses Tile buffers via sync.Pool, grounded on the
// teacher's tile_pool.go (itself cited by DESIGN.md as the model for
// internal/canvas's own ref-counting discipline). Full-size tiles get
// a dedicated pool since they are overwhelmingly the common case;
// edge tiles (at the right/bottom canvas border) fall back to a
// size-keyed pool.
type TilePool struct {
	pools        sync.Map
	fullTilePool sync.Pool
}

// NewTilePool creates an empty tile pool.
func NewTilePool() *TilePool {
	p := &TilePool{}
	p.fullTilePool.New = func() any {
		return &Tile{Width: TileWidth, Height: TileHeight, Data: make([]byte, TileBytes)}
	}
	return p
}

// Get returns a zeroed tile of the given dimensions, reused from the
// pool when available.
func (p *TilePool) Get(width, height int) *Tile {
	if width <= 0 || height <= 0 {
		return nil
	}
	if width == TileWidth && height == TileHeight {
		t := p.fullTilePool.Get().(*Tile)
		t.Reset()
		t.X, t.Y = 0, 0
		return t
	}

	key := poolKey(width, height)
	pool := p.getOrCreatePool(key, width, height)
	t := pool.Get().(*Tile)
	t.Reset()
	t.X, t.Y = 0, 0
	t.Width, t.Height = width, height
	return t
}

// Put returns a tile to the pool for reuse.
func (p *TilePool) Put(t *Tile) {
	if t == nil {
		return
	}
	t.Reset()
	if t.Width == TileWidth && t.Height == TileHeight {
		p.fullTilePool.Put(t)
		return
	}
	key := poolKey(t.Width, t.Height)
	if pool, ok := p.pools.Load(key); ok {
		pool.(*sync.Pool).Put(t)
	}
}

func poolKey(width, height int) uint32 {
	w, h := width, height
	if w > 0xFFFF {
		w = 0xFFFF
	}
	if h > 0xFFFF {
		h = 0xFFFF
	}
	return uint32(w)<<16 | uint32(h) //nolint:gosec // clamped above
}

func (p *TilePool) getOrCreatePool(key uint32, width, height int) *sync.Pool {
	if pool, ok := p.pools.Load(key); ok {
		return pool.(*sync.Pool)
	}
	newPool := &sync.Pool{
		New: func() any {
			return &Tile{Width: width, Height: height, Data: make([]byte, width*height*4)}
		},
	}
	actual, _ := p.pools.LoadOrStore(key, newPool)
	return actual.(*sync.Pool)
}
