package gpucache

// TextureKey identifies a pooled texture by its allocation shape, matching
// spec.md §5's "(width, height, stride/components, bit depth)" pool
// granularity — two textures with the same key are interchangeable.
type TextureKey struct {
	Width      int
	Height     int
	Components int
	BitDepth   int
}

// BufferKey identifies a pooled GPU buffer by size and usage flags.
type BufferKey struct {
	Size  int
	Usage uint32
}

// Pools bundles the texture and buffer pools of one accelerator instance.
// T and B are the accelerator's own texture/buffer handle types, so
// gpucache stays free of any GPU-backend import.
type Pools[T any, B any] struct {
	Textures *Cache[TextureKey, T]
	Buffers  *Cache[BufferKey, B]
}

// NewPools creates texture and buffer pools with the given soft limits.
func NewPools[T any, B any](maxTextures, maxBuffers int) *Pools[T, B] {
	return &Pools[T, B]{
		Textures: New[TextureKey, T](maxTextures),
		Buffers:  New[BufferKey, B](maxBuffers),
	}
}

// Close drains both pools, calling the given release functions on every
// surviving entry so the accelerator can free the underlying GPU memory.
func (p *Pools[T, B]) Close(releaseTexture func(T), releaseBuffer func(B)) {
	p.Textures.Drain(releaseTexture)
	p.Buffers.Drain(releaseBuffer)
}
