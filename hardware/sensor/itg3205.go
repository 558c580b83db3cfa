package sensor

import (
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/log2"
)

// ITG3205 slave address with AD0 low.
const ITG3205Addr = 0x68

// ITG3205 register map.
const (
	itgWhoAmI    = 0x00
	itgSmplrtDiv = 0x15
	itgDlpfFS    = 0x16
	itgIntCfg    = 0x17
	itgIntStatus = 0x1a
	itgTempOut   = 0x1b
	itgGyroX     = 0x1d
	itgPwrMgmt   = 0x3e
)

// DLPF_FS: full-scale select must be 3 (±2000°/s) for the device to
// work per datasheet; low bits pick the low-pass filter bandwidth.
const (
	ITGFullScale2000 byte = 0x18

	ITGFilter256Hz byte = 0x00
	ITGFilter188Hz byte = 0x01
	ITGFilter98Hz  byte = 0x02
	ITGFilter42Hz  byte = 0x03
	ITGFilter20Hz  byte = 0x04
	ITGFilter10Hz  byte = 0x05
	ITGFilter5Hz   byte = 0x06
)

// INT_CFG bits.
const (
	ITGIntActiveLow  byte = 0x80
	ITGIntOpenDrain  byte = 0x40
	ITGIntLatch      byte = 0x20
	ITGIntAnyRdClear byte = 0x10
	ITGIntPLLReady   byte = 0x04
	ITGIntDataReady  byte = 0x01
)

// PWR_MGM bits and clock sources.
const (
	ITGPowerReset   byte = 0x80
	ITGPowerSleep   byte = 0x40
	ITGPowerStbyX   byte = 0x20
	ITGPowerStbyY   byte = 0x10
	ITGPowerStbyZ   byte = 0x08
	ITGClockPLLX    byte = 0x01
	ITGClockPLLY    byte = 0x02
	ITGClockPLLZ    byte = 0x03
	ITGClockInt8MHz byte = 0x00
)

// ITG3205 is a three-axis gyroscope with an on-die temperature
// sensor. All samples are big-endian.
type ITG3205 struct {
	bus  i2c.Bus
	addr byte
	log  *log2.Log
}

// NewITG3205 verifies WHO_AM_I echoes the bus address (upper 6 bits)
// before returning a driver.
func NewITG3205(bus i2c.Bus, addr byte, log *log2.Log) (*ITG3205, error) {
	if addr == 0 {
		addr = ITG3205Addr
	}
	g := &ITG3205{bus: bus, addr: addr, log: log}
	id, err := i2c.ReadReg(bus, addr, itgWhoAmI)
	if err != nil {
		return nil, errors.Annotate(err, "itg3205 probe")
	}
	if id&0x7e != addr&0x7e {
		return nil, errors.Errorf("itg3205 addr=%02x whoami=%02x", addr, id)
	}
	return g, nil
}

// SetSampleRate divides the internal sample clock: rate = clock/(div+1).
func (g *ITG3205) SetSampleRate(div byte) error {
	return errors.Annotate(i2c.WriteReg(g.bus, g.addr, itgSmplrtDiv, div), "itg3205")
}

func (g *ITG3205) SetFilter(v byte) error {
	return errors.Annotate(i2c.WriteReg(g.bus, g.addr, itgDlpfFS, v), "itg3205")
}

func (g *ITG3205) SetInterruptConfig(v byte) error {
	return errors.Annotate(i2c.WriteReg(g.bus, g.addr, itgIntCfg, v), "itg3205")
}

func (g *ITG3205) InterruptStatus() (byte, error) {
	b, err := i2c.ReadReg(g.bus, g.addr, itgIntStatus)
	return b, errors.Annotate(err, "itg3205")
}

func (g *ITG3205) SetPowerManagement(v byte) error {
	return errors.Annotate(i2c.WriteReg(g.bus, g.addr, itgPwrMgmt, v), "itg3205")
}

// Gyro burst-reads all three axes from one measurement.
func (g *ITG3205) Gyro() (XYZ, error) {
	var buf [6]byte
	if err := i2c.ReadRegs(g.bus, g.addr, itgGyroX, buf[:]); err != nil {
		return XYZ{}, errors.Annotate(err, "itg3205 sample")
	}
	return XYZ{
		X: be16(buf[0], buf[1]),
		Y: be16(buf[2], buf[3]),
		Z: be16(buf[4], buf[5]),
	}, nil
}

// Temperature returns the raw temperature counts;
// °C = 35 + (counts+13200)/280.
func (g *ITG3205) Temperature() (int16, error) {
	var buf [2]byte
	if err := i2c.ReadRegs(g.bus, g.addr, itgTempOut, buf[:]); err != nil {
		return 0, errors.Annotate(err, "itg3205 temperature")
	}
	return be16(buf[0], buf[1]), nil
}
