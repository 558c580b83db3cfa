package uart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingPushPop(t *testing.T) {
	t.Parallel()

	r := newTxRing(8)
	assert.True(t, r.Push([]byte("hello")))
	assert.Equal(t, 5, r.Len())

	dst := make([]byte, 3)
	assert.Equal(t, 3, r.Pop(dst))
	assert.Equal(t, []byte("hel"), dst)
	assert.Equal(t, 2, r.Len())

	// wraps around the end of storage
	assert.True(t, r.Push([]byte("world!")))
	out := make([]byte, 8)
	assert.Equal(t, 8, r.Pop(out))
	assert.Equal(t, []byte("loworld!"), out)
	assert.Equal(t, 0, r.Len())
}

func TestRingRejectsOversize(t *testing.T) {
	t.Parallel()

	r := newTxRing(4)
	assert.True(t, r.Push([]byte("abc")))
	// all-or-nothing: no partial enqueue
	assert.False(t, r.Push([]byte("de")))
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Push([]byte("d")))
	assert.False(t, r.Push([]byte("x")))

	out := make([]byte, 4)
	assert.Equal(t, 4, r.Pop(out))
	assert.Equal(t, []byte("abcd"), out)
}

func TestRingEmptyPop(t *testing.T) {
	t.Parallel()

	r := newTxRing(2)
	dst := make([]byte, 2)
	assert.Equal(t, 0, r.Pop(dst))
}

func TestRingDefaultSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultTxRingSize, newTxRing(0).Cap())
	assert.Equal(t, 16, newTxRing(16).Cap())
}
