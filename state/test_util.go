package state

import (
	"context"
	"image"
	"testing"

	"github.com/hollingerc/avrkit/hardware/display"
	"github.com/hollingerc/avrkit/hardware/gpio"
	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/log2"
)

func NewTestContext(t testing.TB, confString string) (context.Context, *Global) {
	fs := NewMockFullReader(map[string]string{
		"test-inline": confString,
	})

	log := log2.NewTest(t, log2.LDebug)
	// log := log2.NewStderr(log2.LDebug) // useful with panics
	log.SetFlags(log2.LTestFlags)
	ctx, g := NewContext(log)

	// Mock every device the config may enable before Init fires the
	// once-guarded constructors.
	bus := i2c.NewMockBus()
	seedSensorIdents(bus)
	g.hw.TestI2C = bus
	g.hw.TestKeypad.Rows = gpio.NewMemPort()
	g.hw.TestKeypad.Cols = gpio.NewMemPort()
	g.hw.TestPushbuttonPort = gpio.NewMemPort()

	cfg := MustReadConfig(log, fs, "test-inline")
	if dc := &cfg.Hardware.Display; dc.Enable && dc.Width > 0 && dc.Height > 0 {
		size := image.Point{X: dc.Width, Y: dc.Height}
		g.hw.TestBlitter = display.NewMock(size, size)
	}

	g.MustInit(ctx, cfg)

	return ctx, g
}

// seedSensorIdents fills the identification registers each driver
// probes at construction, at the default addresses.
func seedSensorIdents(bus *i2c.MockBus) {
	bus.Device(0x53)[0x00] = 0xe5 // ADXL345 DEVID
	copy(bus.Device(0x1e)[0x0a:], "H43")
	bus.Device(0x68)[0x00] = 0x68 // ITG3205 WHO_AM_I echoes address
}
