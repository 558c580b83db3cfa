package gpio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cdev "github.com/temoto/gpio-cdev-go"
	gpio_mock "github.com/temoto/gpio-cdev-go/mock"

	"github.com/hollingerc/avrkit/log2"
)

func TestCdevPortScanCycle(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LDebug)
	chip := new(gpio_mock.MockChip)
	inLines := new(gpio_mock.MockLines)
	mixedIn := new(gpio_mock.MockLines)
	outLines := new(gpio_mock.MockLines)

	// construction: bits 0,1 wired to lines 4,5; both start input
	chip.On("OpenLines", cdev.GPIOHANDLE_REQUEST_INPUT, "test", uint32(4), uint32(5)).
		Return(inLines, nil).Once()

	// SetOutput(bit0): groups are reopened
	inLines.On("Close").Return(nil)
	chip.On("OpenLines", cdev.GPIOHANDLE_REQUEST_INPUT, "test", uint32(5)).
		Return(mixedIn, nil)
	chip.On("OpenLines", cdev.GPIOHANDLE_REQUEST_OUTPUT, "test", uint32(4)).
		Return(outLines, nil)

	var driven byte = 0xff
	outLines.On("SetFunc", uint32(4)).Return(cdev.LineSetFunc(func(v byte) { driven = v }))
	outLines.On("Flush").Return(nil)
	outLines.On("Close").Return(nil)

	// input bit 1 reads low
	mixedIn.On("Read").Return(cdev.HandleData{}, nil)
	mixedIn.On("Close").Return(nil)
	chip.On("Close").Return(nil)

	var lines [8]uint32
	lines[0], lines[1] = 4, 5
	p := &CdevPort{
		log:   log,
		chip:  chip,
		label: "test",
		lines: lines,
		valid: 0x03,
	}
	require.NoError(t, p.rebuild())

	p.SetOutput(0x01)
	p.Clear(0x01)
	require.NoError(t, p.Err())
	assert.Equal(t, byte(0), driven)

	assert.Equal(t, byte(0x00), p.Read())

	p.Set(0x01)
	assert.Equal(t, byte(1), driven)

	require.NoError(t, p.Close())
	chip.AssertExpectations(t)
}
