package evaluator

import (
	"bytes"
	"sync"
)

// bufPool holds scratch buffers for built-ins that assemble strings
// (join, println).
//
// Each caller owns a buffer between acquireBuf and releaseBuf; the string
// handed back to the script is copied out before the buffer is released.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

// acquireBuf returns a reset buffer from the pool.
func acquireBuf() *bytes.Buffer {
	b := bufPool.Get().(*bytes.Buffer)
	b.Reset()
	return b
}

// releaseBuf returns a buffer to the pool. Buffers that grew past 64 KB are
// dropped so one large join does not pin memory.
func releaseBuf(b *bytes.Buffer) {
	if b.Cap() <= 64*1024 {
		bufPool.Put(b)
	}
}
