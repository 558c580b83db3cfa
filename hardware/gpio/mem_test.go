package gpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemPortDirection(t *testing.T) {
	t.Parallel()

	p := NewMemPort()
	// everything input, pulled up
	assert.Equal(t, byte(0xff), p.Read())

	p.SetOutput(0x0f)
	p.Clear(0x0f)
	assert.Equal(t, byte(0xf0), p.Read())

	p.Set(0x03)
	assert.Equal(t, byte(0xf3), p.Read())

	// switching back to input exposes external levels again
	p.SetInput(0x0f)
	p.SetLevels(0xfc)
	assert.Equal(t, byte(0xfc), p.Read())
}

func TestMemPortReadFunc(t *testing.T) {
	t.Parallel()

	p := NewMemPort()
	p.SetOutput(0x10)
	p.Clear(0x10)
	p.ReadFunc = func(dir, out byte) byte {
		// input bit 0 follows output bit 4
		if out&0x10 != 0 {
			return 0xff
		}
		return 0xfe
	}
	assert.Equal(t, byte(0xee), p.Read())
	p.Set(0x10)
	assert.Equal(t, byte(0xff), p.Read())
}
