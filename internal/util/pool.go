package util

import (
	"sync"
	"sync/atomic"
)

const mib = 1 << 20

// pooledBuffer is what actually lives in the sync.Pool: a wrapper around
// the slice. Put only accepts slices of the pool's size, so Get never
// hands out a buffer whose len was shrunk by a previous caller.
type pooledBuffer struct {
	buf []byte
}

// BufferPool hands out fixed-size byte slices for the encrypt/decrypt
// and scan hot paths, so a long-running process doesn't re-allocate a
// megabyte on every file it touches. Buffers are wiped before they go
// back in the pool — plaintext and key material must never linger in a
// slice some unrelated caller picks up next.
type BufferPool struct {
	pool   sync.Pool
	size   int
	leased atomic.Int64
}

// NewBufferPool builds a pool whose Get always returns a slice of
// exactly size bytes.
func NewBufferPool(size int) *BufferPool {
	p := &BufferPool{size: size}
	p.pool.New = func() any {
		return &pooledBuffer{buf: make([]byte, size)}
	}
	return p
}

// Get borrows a buffer from the pool. Its contents are whatever was
// left after zeroing on the last Put — callers must overwrite before
// reading.
func (p *BufferPool) Get() []byte {
	p.leased.Add(1)
	pb := p.pool.Get().(*pooledBuffer)
	return pb.buf
}

// Put returns b to the pool after zeroing it. b must have come from
// Get on this same pool; only its length is checked, and a slice of any
// other length is silently dropped rather than risking a buffer of the
// wrong size circulating.
func (p *BufferPool) Put(b []byte) {
	if len(b) != p.size {
		return
	}
	clear(b)
	p.leased.Add(-1)
	p.pool.Put(&pooledBuffer{buf: b})
}

// Leased reports how many buffers are currently checked out of the
// pool; useful for a debug log line, not load-bearing for correctness.
func (p *BufferPool) Leased() int64 {
	return p.leased.Load()
}

var (
	// MiBPool serves the 1 MiB chunks FileStore streams encrypted file
	// content through.
	MiBPool = NewBufferPool(mib)

	// SmallPool serves the 4 KiB chunks the Scanner's magic-byte probe
	// and other small reads use.
	SmallPool = NewBufferPool(4 * 1024)
)

func GetMiBBuffer() []byte    { return MiBPool.Get() }
func PutMiBBuffer(b []byte)   { MiBPool.Put(b) }
func GetSmallBuffer() []byte  { return SmallPool.Get() }
func PutSmallBuffer(b []byte) { SmallPool.Put(b) }
