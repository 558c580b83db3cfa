package state

import (
	"sync"
	"time"

	"github.com/juju/errors"
	"periph.io/x/periph/conn/physic"
	periphspi "periph.io/x/periph/conn/spi"

	"github.com/hollingerc/avrkit/hardware/display"
	"github.com/hollingerc/avrkit/hardware/display/graphics"
	"github.com/hollingerc/avrkit/hardware/gpio"
	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/hardware/keypad"
	"github.com/hollingerc/avrkit/hardware/sensor"
	"github.com/hollingerc/avrkit/hardware/spi"
	"github.com/hollingerc/avrkit/hardware/uart"
)

// hardware holds lazily constructed devices. Each accessor runs its
// constructor once; the error is sticky so a failed device does not get
// retried on every call.
type hardware struct {
	i2c struct {
		once sync.Once
		bus  i2c.Bus
		err  error
	}
	keypad struct {
		once   sync.Once
		matrix *keypad.MatrixKeypad
		poller *keypad.Poller
		rows   *gpio.CdevPort
		cols   *gpio.CdevPort
		err    error
	}
	pushbuttons struct {
		once   sync.Once
		set    *keypad.PushbuttonSet
		poller *keypad.Poller
		port   *gpio.CdevPort
		err    error
	}
	graphics struct {
		once    sync.Once
		g       *graphics.Graphics
		blitter *display.FbDev
		err     error
	}
	accel struct {
		once sync.Once
		dev  *sensor.ADXL345
		err  error
	}
	gyro struct {
		once sync.Once
		dev  *sensor.ITG3205
		err  error
	}
	mag struct {
		once sync.Once
		dev  *sensor.HMC5883
		err  error
	}
	uart struct {
		once sync.Once
		dev  *uart.Uart
		err  error
	}
	spi struct {
		once sync.Once
		dev  *spi.Master
		err  error
	}

	// Tests inject mocks here before the once fires.
	TestI2C     i2c.Bus
	TestBlitter graphics.Blitter
	TestKeypad  struct {
		Rows gpio.Port
		Cols gpio.Port
	}
	TestPushbuttonPort gpio.Port
}

func (g *Global) I2C() (i2c.Bus, error) {
	x := &g.hw.i2c
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		if g.hw.TestI2C != nil {
			x.bus = g.hw.TestI2C
			return
		}
		bus := i2c.NewBus(byte(g.Config.Hardware.I2C.Bus))
		if x.err = bus.Init(); x.err != nil {
			x.err = errors.Annotatef(x.err, "config: i2c.bus=%d", g.Config.Hardware.I2C.Bus)
			return
		}
		x.bus = bus
	})
	return x.bus, x.err
}

func (g *Global) Keypad() (*keypad.MatrixKeypad, error) {
	x := &g.hw.keypad
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		kc := &g.Config.Hardware.Keypad

		rows := g.hw.TestKeypad.Rows
		cols := g.hw.TestKeypad.Cols
		if rows == nil || cols == nil {
			var lines [8]uint32
			valid := packLines(&lines, kc.RowLines)
			x.rows, x.err = gpio.NewCdevPort(kc.Chip, "keypad-rows", lines, valid, g.Log)
			if x.err != nil {
				x.err = errors.Annotatef(x.err, "config: keypad.chip=%s rows", kc.Chip)
				return
			}
			lines = [8]uint32{}
			valid = packLines(&lines, kc.ColLines)
			x.cols, x.err = gpio.NewCdevPort(kc.Chip, "keypad-cols", lines, valid, g.Log)
			if x.err != nil {
				x.rows.Close()
				x.err = errors.Annotatef(x.err, "config: keypad.chip=%s cols", kc.Chip)
				return
			}
			rows, cols = x.rows, x.cols
		}

		mc := keypad.MatrixConfig{
			Rows:          uint8(len(kc.RowLines)),
			Cols:          uint8(len(kc.ColLines)),
			RowMask:       lineMask(len(kc.RowLines)),
			ColMask:       lineMask(len(kc.ColLines)),
			Codes:         []byte(kc.Codes),
			DebounceTicks: uint16(kc.DebounceTicks),
			HoldTicks:     uint16(kc.HoldTicks),
		}
		x.matrix, x.err = keypad.NewMatrix(rows, cols, mc, g.Log)
		if x.err != nil {
			x.err = errors.Annotatef(x.err, "config: keypad=%+v", *kc)
			return
		}
		interval := time.Duration(kc.ScanIntervalMs) * time.Millisecond
		x.poller = keypad.NewPoller(x.matrix, interval, g.Log)
	})
	return x.matrix, x.err
}

// KeypadPoller returns the scan loop owning the keypad tick; it is
// created by Keypad() but not started.
func (g *Global) KeypadPoller() (*keypad.Poller, error) {
	if _, err := g.Keypad(); err != nil {
		return nil, err
	}
	return g.hw.keypad.poller, nil
}

func (g *Global) Pushbuttons() (*keypad.PushbuttonSet, error) {
	x := &g.hw.pushbuttons
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		pc := &g.Config.Hardware.Pushbuttons

		mask := keypad.MaskLower
		offset := 0
		if pc.Nibble == "upper" {
			mask = keypad.MaskUpper
			offset = 4
		}

		port := g.hw.TestPushbuttonPort
		if port == nil {
			var lines [8]uint32
			valid := byte(0)
			for i, l := range pc.Lines {
				lines[offset+i] = uint32(l)
				valid |= 1 << uint(offset+i)
			}
			x.port, x.err = gpio.NewCdevPort(pc.Chip, "pushbuttons", lines, valid, g.Log)
			if x.err != nil {
				x.err = errors.Annotatef(x.err, "config: pushbuttons.chip=%s", pc.Chip)
				return
			}
			port = x.port
		}

		x.set, x.err = keypad.NewPushbuttonSet(port, mask, uint16(pc.HoldTicks), g.Log)
		if x.err != nil {
			x.err = errors.Annotatef(x.err, "config: pushbuttons=%+v", *pc)
			return
		}
		interval := time.Duration(pc.ScanIntervalMs) * time.Millisecond
		x.poller = keypad.NewPoller(x.set, interval, g.Log)
	})
	return x.set, x.err
}

func (g *Global) PushbuttonPoller() (*keypad.Poller, error) {
	if _, err := g.Pushbuttons(); err != nil {
		return nil, err
	}
	return g.hw.pushbuttons.poller, nil
}

func (g *Global) Graphics() (*graphics.Graphics, error) {
	x := &g.hw.graphics
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		dc := &g.Config.Hardware.Display

		x.g, x.err = graphics.New(dc.Width, dc.Height, g.Log)
		if x.err != nil {
			x.err = errors.Annotatef(x.err, "config: display=%+v", *dc)
			return
		}
		x.g.SetRotation(graphics.Rotation(dc.Rotation))
		if dc.TextSize > 0 {
			x.g.SetTextSize(dc.TextSize)
		}
		if dc.Codepage != "" {
			if x.err = x.g.SetCodepage(dc.Codepage); x.err != nil {
				x.err = errors.Annotatef(x.err, "config: display.codepage=%s", dc.Codepage)
				return
			}
		}

		switch {
		case g.hw.TestBlitter != nil:
			x.g.SetBlitter(g.hw.TestBlitter)
		case dc.Fbdev != "":
			x.blitter, x.err = display.NewFb(dc.Fbdev, dc.Width, dc.Height)
			if x.err != nil {
				x.err = errors.Annotatef(x.err, "config: display.fbdev=%s", dc.Fbdev)
				return
			}
			x.g.SetBlitter(x.blitter)
		}
	})
	return x.g, x.err
}

func (g *Global) Accel() (*sensor.ADXL345, error) {
	x := &g.hw.accel
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		bus, err := g.I2C()
		if err != nil {
			x.err = errors.Annotate(err, "accel needs i2c")
			return
		}
		x.dev, x.err = sensor.NewADXL345(bus, byte(g.Config.Hardware.Accel.Address), g.Log)
	})
	return x.dev, x.err
}

func (g *Global) Gyro() (*sensor.ITG3205, error) {
	x := &g.hw.gyro
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		bus, err := g.I2C()
		if err != nil {
			x.err = errors.Annotate(err, "gyro needs i2c")
			return
		}
		x.dev, x.err = sensor.NewITG3205(bus, byte(g.Config.Hardware.Gyro.Address), g.Log)
	})
	return x.dev, x.err
}

func (g *Global) Mag() (*sensor.HMC5883, error) {
	x := &g.hw.mag
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		bus, err := g.I2C()
		if err != nil {
			x.err = errors.Annotate(err, "mag needs i2c")
			return
		}
		x.dev, x.err = sensor.NewHMC5883(bus, byte(g.Config.Hardware.Mag.Address), g.Log)
	})
	return x.dev, x.err
}

func (g *Global) Uart() (*uart.Uart, error) {
	x := &g.hw.uart
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		uc := &g.Config.Hardware.Uart
		x.dev, x.err = uart.Open(uart.Config{
			Device:     uc.Device,
			Baud:       uc.Baud,
			TxRingSize: uc.TxRing,
		}, g.Log)
		if x.err != nil {
			x.err = errors.Annotatef(x.err, "config: uart=%+v", *uc)
		}
	})
	return x.dev, x.err
}

func (g *Global) Spi() (*spi.Master, error) {
	x := &g.hw.spi
	x.once.Do(func() {
		defer recoverFatal(g.Log) // fix sync.Once silent panic
		sc := &g.Config.Hardware.Spi
		x.dev, x.err = spi.Open(spi.Config{
			Bus:   sc.Bus,
			Speed: physic.Frequency(sc.SpeedKhz) * physic.KiloHertz,
			Mode:  periphspi.Mode(sc.Mode),
		}, g.Log)
		if x.err != nil {
			x.err = errors.Annotatef(x.err, "config: spi=%+v", *sc)
		}
	})
	return x.dev, x.err
}

func (hw *hardware) stop() {
	if hw.keypad.poller != nil {
		hw.keypad.poller.Stop()
		hw.keypad.poller.Wait()
	}
	if hw.pushbuttons.poller != nil {
		hw.pushbuttons.poller.Stop()
		hw.pushbuttons.poller.Wait()
	}
	if hw.keypad.rows != nil {
		hw.keypad.rows.Close()
	}
	if hw.keypad.cols != nil {
		hw.keypad.cols.Close()
	}
	if hw.pushbuttons.port != nil {
		hw.pushbuttons.port.Close()
	}
	if hw.graphics.blitter != nil {
		hw.graphics.blitter.Close()
	}
	if hw.uart.dev != nil {
		hw.uart.dev.Close()
	}
	if hw.spi.dev != nil {
		hw.spi.dev.Close()
	}
	if hw.i2c.bus != nil {
		hw.i2c.bus.Close()
	}
}

// packLines places line offsets at consecutive port bits from bit 0 and
// returns the valid mask.
func packLines(dst *[8]uint32, src []int) byte {
	valid := byte(0)
	for i, l := range src {
		if i >= len(dst) {
			break
		}
		dst[i] = uint32(l)
		valid |= 1 << uint(i)
	}
	return valid
}

func lineMask(n int) byte {
	if n >= 8 {
		return 0xff
	}
	return byte(1<<uint(n)) - 1
}
