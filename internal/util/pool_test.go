package util

import "testing"

func TestBufferPoolGetReturnsRequestedSize(t *testing.T) {
	pool := NewBufferPool(1024)

	buf := pool.Get()
	if len(buf) != 1024 {
		t.Errorf("expected buffer length 1024, got %d", len(buf))
	}
	pool.Put(buf)
}

func TestBufferPoolZeroesOnPut(t *testing.T) {
	pool := NewBufferPool(1024)

	buf := pool.Get()
	for i := range buf {
		buf[i] = byte(i % 256)
	}
	pool.Put(buf)

	buf2 := pool.Get()
	for i, v := range buf2 {
		if v != 0 {
			t.Fatalf("buffer should be zeroed at index %d, got %d", i, v)
		}
	}
}

func TestBufferPoolRejectsMismatchedSize(t *testing.T) {
	pool := NewBufferPool(1024)

	wrongSize := make([]byte, 512)
	pool.Put(wrongSize)

	buf := pool.Get()
	if len(buf) != 1024 {
		t.Errorf("expected buffer length 1024, got %d", len(buf))
	}
}

func TestBufferPoolTracksLeaseCount(t *testing.T) {
	pool := NewBufferPool(64)

	buf := pool.Get()
	if got := pool.Leased(); got != 1 {
		t.Errorf("expected 1 leased buffer, got %d", got)
	}
	pool.Put(buf)
	if got := pool.Leased(); got != 0 {
		t.Errorf("expected 0 leased buffers after Put, got %d", got)
	}
}

func TestMiBPoolServesMiBBuffers(t *testing.T) {
	buf := GetMiBBuffer()
	if len(buf) != mib {
		t.Errorf("expected MiB buffer length %d, got %d", mib, len(buf))
	}
	PutMiBBuffer(buf)
}

func TestSmallPoolServesFourKiBBuffers(t *testing.T) {
	buf := GetSmallBuffer()
	if len(buf) != 4*1024 {
		t.Errorf("expected small buffer length %d, got %d", 4*1024, len(buf))
	}
	PutSmallBuffer(buf)
}

func BenchmarkBufferPoolGetPut(b *testing.B) {
	pool := NewBufferPool(mib)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := pool.Get()
		pool.Put(buf)
	}
}

func BenchmarkBufferPoolNoPool(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		buf := make([]byte, mib)
		_ = buf
	}
}
