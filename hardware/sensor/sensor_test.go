package sensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/log2"
)

func mockADXL(t testing.TB) (*i2c.MockBus, *[256]byte) {
	m := i2c.NewMockBus()
	d := m.Device(ADXL345Addr)
	d[0x00] = 0xe5
	return m, d
}

func TestADXL345Probe(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LError)
	m, _ := mockADXL(t)
	_, err := NewADXL345(m, 0, log)
	require.NoError(t, err)

	// wrong chip behind the address
	m2 := i2c.NewMockBus()
	m2.Device(ADXL345Addr)[0x00] = 0x33
	_, err = NewADXL345(m2, 0, log)
	assert.Error(t, err)
}

func TestADXL345Config(t *testing.T) {
	t.Parallel()

	m, d := mockADXL(t)
	a, err := NewADXL345(m, 0, log2.NewTest(t, log2.LError))
	require.NoError(t, err)

	require.NoError(t, a.SetPowerControl(ADXLPowerMeasure))
	require.NoError(t, a.SetRate(ADXLRate100))
	require.NoError(t, a.SetDataFormat(0x0b))
	assert.Equal(t, byte(0x08), d[0x2d])
	assert.Equal(t, byte(0x0a), d[0x2c])
	assert.Equal(t, byte(0x0b), d[0x31])

	d[0x2a] = ADXLTapZ
	require.NoError(t, a.InitSingleTap(0x30, 0x10, ADXLTapX|ADXLTapY))
	assert.Equal(t, byte(0x30), d[0x1d])
	assert.Equal(t, byte(0x10), d[0x21])
	assert.Equal(t, ADXLTapX|ADXLTapY|ADXLTapZ, d[0x2a], "tap axes are ORed, not replaced")

	require.NoError(t, a.InitDoubleTap(0x30, 0x10, 0x50, 0xc0, ADXLTapZ))
	assert.Equal(t, byte(0x50), d[0x22])
	assert.Equal(t, byte(0xc0), d[0x23])
}

func TestADXL345Accel(t *testing.T) {
	t.Parallel()

	m, d := mockADXL(t)
	a, err := NewADXL345(m, 0, log2.NewTest(t, log2.LError))
	require.NoError(t, err)

	// little-endian: X=0x0102, Y=-2, Z=0x7fff
	copy(d[0x32:], []byte{0x02, 0x01, 0xfe, 0xff, 0xff, 0x7f})
	got, err := a.Accel()
	require.NoError(t, err)
	assert.Equal(t, XYZ{X: 0x0102, Y: -2, Z: 0x7fff}, got)
}

func TestHMC5883(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LError)
	m := i2c.NewMockBus()
	d := m.Device(HMC5883Addr)
	copy(d[0x0a:], "H43")

	h, err := NewHMC5883(m, 0, log)
	require.NoError(t, err)

	require.NoError(t, h.Init(HMCAverage8|HMCRate15, 0x20, HMCModeContinuous))
	assert.Equal(t, HMCAverage8|HMCRate15, d[0x00])
	assert.Equal(t, byte(0x20), d[0x01])
	assert.Equal(t, HMCModeContinuous, d[0x02])

	d[0x09] = HMCStatusReady
	st, err := h.Status()
	require.NoError(t, err)
	assert.Equal(t, HMCStatusReady, st)

	// big-endian: X=256, Y=-1, Z=2
	copy(d[0x03:], []byte{0x01, 0x00, 0xff, 0xff, 0x00, 0x02})
	got, err := h.Mag()
	require.NoError(t, err)
	assert.Equal(t, XYZ{X: 256, Y: -1, Z: 2}, got)

	bad := i2c.NewMockBus()
	copy(bad.Device(HMC5883Addr)[0x0a:], "???")
	_, err = NewHMC5883(bad, 0, log)
	assert.Error(t, err)
}

func TestITG3205(t *testing.T) {
	t.Parallel()

	log := log2.NewTest(t, log2.LError)
	m := i2c.NewMockBus()
	d := m.Device(ITG3205Addr)
	d[0x00] = ITG3205Addr

	g, err := NewITG3205(m, 0, log)
	require.NoError(t, err)

	require.NoError(t, g.SetSampleRate(7))
	require.NoError(t, g.SetFilter(ITGFullScale2000|ITGFilter42Hz))
	require.NoError(t, g.SetInterruptConfig(ITGIntLatch|ITGIntDataReady))
	require.NoError(t, g.SetPowerManagement(ITGClockPLLX))
	assert.Equal(t, byte(7), d[0x15])
	assert.Equal(t, ITGFullScale2000|ITGFilter42Hz, d[0x16])
	assert.Equal(t, ITGIntLatch|ITGIntDataReady, d[0x17])
	assert.Equal(t, ITGClockPLLX, d[0x3e])

	copy(d[0x1b:], []byte{0xff, 0x00}) // temperature -256
	temp, err := g.Temperature()
	require.NoError(t, err)
	assert.Equal(t, int16(-256), temp)

	copy(d[0x1d:], []byte{0x00, 0x10, 0xff, 0xfe, 0x40, 0x00})
	got, err := g.Gyro()
	require.NoError(t, err)
	assert.Equal(t, XYZ{X: 16, Y: -257, Z: 0x4000}, got)

	bad := i2c.NewMockBus()
	bad.Device(ITG3205Addr)[0x00] = 0x00
	_, err = NewITG3205(bad, 0, log)
	assert.Error(t, err)
}
