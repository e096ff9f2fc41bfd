package gpucache

import "testing"

func TestPoolsTexturesAndBuffersAreIndependent(t *testing.T) {
	p := NewPools[string, int](0, 0)
	p.Textures.GetOrCreate(TextureKey{Width: 1, Height: 1}, func() (string, error) { return "tex", nil })
	p.Buffers.GetOrCreate(BufferKey{Size: 4}, func() (int, error) { return 9, nil })

	if p.Textures.Len() != 1 || p.Buffers.Len() != 1 {
		t.Fatalf("expected one entry per pool, got textures=%d buffers=%d", p.Textures.Len(), p.Buffers.Len())
	}
}

func TestPoolsCloseReleasesBothPools(t *testing.T) {
	p := NewPools[string, int](0, 0)
	p.Textures.GetOrCreate(TextureKey{Width: 1, Height: 1}, func() (string, error) { return "tex", nil })
	p.Buffers.GetOrCreate(BufferKey{Size: 4}, func() (int, error) { return 9, nil })

	var releasedTex []string
	var releasedBuf []int
	p.Close(
		func(v string) { releasedTex = append(releasedTex, v) },
		func(v int) { releasedBuf = append(releasedBuf, v) },
	)
	if len(releasedTex) != 1 || len(releasedBuf) != 1 {
		t.Fatalf("Close should release every pooled entry, got tex=%v buf=%v", releasedTex, releasedBuf)
	}
	if p.Textures.Len() != 0 || p.Buffers.Len() != 0 {
		t.Fatalf("pools should be empty after Close")
	}
}
