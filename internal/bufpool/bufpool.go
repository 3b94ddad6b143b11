// Package bufpool provides a pool of reusable scratch byte slices for the
// codec's string writers (PutCString and PutString stage and UTF-8-validate
// their input in a pooled slice). Buffer growth does not use the pool.
package bufpool

import "sync"

var pool = sync.Pool{
	New: func() any {
		return make([]byte, 0, 256)
	},
}

// Get returns a scratch slice with length size. Its contents are not zeroed.
func Get(size int) []byte {
	buf := pool.Get().([]byte)
	if cap(buf) < size {
		return make([]byte, size)
	}
	return buf[:size]
}

// Put returns buf to the pool for reuse.
func Put(buf []byte) {
	//nolint:staticcheck // SA6002: slice descriptor copy is acceptable for sync.Pool
	pool.Put(buf[:0])
}
