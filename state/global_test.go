package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFullConf = `
hardware {
	keypad {
		enable = true
		row_lines = [4, 5, 6, 7]
		col_lines = [8, 9, 10]
		codes = "123456789*0#"
		debounce_ticks = 2
		hold_ticks = 50
		scan_interval_ms = 5
	}
	pushbuttons {
		enable = true
		lines = [20, 21, 22, 23]
		nibble = "upper"
		hold_ticks = 100
	}
	display {
		enable = true
		width = 128
		height = 64
	}
	i2c { bus = 1 }
	accel { enable = true }
	gyro { enable = true }
	mag { enable = true }
}`

func TestGlobalHardware(t *testing.T) {
	t.Parallel()

	ctx, g := NewTestContext(t, testFullConf)
	defer g.Stop()

	kp, err := g.Keypad()
	require.NoError(t, err)
	assert.Equal(t, 12, kp.Len())

	// second call returns the same instance
	kp2, err := g.Keypad()
	require.NoError(t, err)
	assert.Same(t, kp, kp2)

	poller, err := g.KeypadPoller()
	require.NoError(t, err)
	require.NotNil(t, poller)

	pb, err := g.Pushbuttons()
	require.NoError(t, err)
	assert.Equal(t, byte(0), pb.Flags())

	gfx, err := g.Graphics()
	require.NoError(t, err)
	assert.Equal(t, 128, gfx.Width())
	assert.Equal(t, 64, gfx.Height())
	gfx.Line(0, 0, 127, 63)
	require.NoError(t, gfx.Flush())

	accel, err := g.Accel()
	require.NoError(t, err)
	require.NotNil(t, accel)
	gyro, err := g.Gyro()
	require.NoError(t, err)
	require.NotNil(t, gyro)
	mag, err := g.Mag()
	require.NoError(t, err)
	require.NotNil(t, mag)

	assert.Same(t, g, GetGlobal(ctx))
}

func TestGlobalDisabled(t *testing.T) {
	t.Parallel()

	_, g := NewTestContext(t, "")
	defer g.Stop()

	// nothing enabled, nothing constructed eagerly; graphics still
	// works on demand but rejects the zero config
	_, err := g.Graphics()
	assert.Error(t, err)
}
