package uart

import "sync"

// txRing buffers whole messages for the background transmitter.
// Push is all-or-nothing: a message that does not fit in the free
// space is rejected instead of partially queued, so the wire never
// carries a truncated string.
type txRing struct {
	lk    sync.Mutex
	buf   []byte
	head  int // next byte to transmit
	tail  int // next free byte
	count int
}

func newTxRing(size int) *txRing {
	if size < 1 {
		size = DefaultTxRingSize
	}
	return &txRing{buf: make([]byte, size)}
}

func (r *txRing) Cap() int { return len(r.buf) }

func (r *txRing) Len() int {
	r.lk.Lock()
	defer r.lk.Unlock()
	return r.count
}

func (r *txRing) Push(p []byte) bool {
	r.lk.Lock()
	defer r.lk.Unlock()
	if len(p) > len(r.buf)-r.count {
		return false
	}
	for _, b := range p {
		r.buf[r.tail] = b
		r.tail = (r.tail + 1) % len(r.buf)
	}
	r.count += len(p)
	return true
}

// Pop moves up to len(dst) queued bytes into dst.
func (r *txRing) Pop(dst []byte) int {
	r.lk.Lock()
	defer r.lk.Unlock()
	n := 0
	for n < len(dst) && r.count > 0 {
		dst[n] = r.buf[r.head]
		r.head = (r.head + 1) % len(r.buf)
		r.count--
		n++
	}
	return n
}
