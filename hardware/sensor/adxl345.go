package sensor

import (
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/log2"
)

// ADXL345 slave address with SDO/ALT ADDRESS pulled low, as on the
// common breakout boards.
const ADXL345Addr = 0x53

// ADXL345 register map.
const (
	adxlDevID      = 0x00
	adxlThreshTap  = 0x1d
	adxlDur        = 0x21
	adxlLatent     = 0x22
	adxlWindow     = 0x23
	adxlTapAxes    = 0x2a
	adxlBWRate     = 0x2c
	adxlPowerCtl   = 0x2d
	adxlIntEnable  = 0x2e
	adxlIntMap     = 0x2f
	adxlIntSource  = 0x30
	adxlDataFormat = 0x31
	adxlDataX      = 0x32
)

// DEVID reads back a fixed 0xe5 (345 octal).
const adxlDeviceID = 0xe5

// POWER_CTL bits.
const (
	ADXLPowerLink    byte = 0x20
	ADXLPowerAutoSlp byte = 0x10
	ADXLPowerMeasure byte = 0x08
	ADXLPowerSleep   byte = 0x04
)

// BW_RATE output data rates.
const (
	ADXLRate3200 byte = 0x0f
	ADXLRate1600 byte = 0x0e
	ADXLRate800  byte = 0x0d
	ADXLRate400  byte = 0x0c
	ADXLRate200  byte = 0x0b
	ADXLRate100  byte = 0x0a
	ADXLRate50   byte = 0x09
	ADXLRate25   byte = 0x08
)

// INT_ENABLE / INT_SOURCE bits.
const (
	ADXLIntDataReady byte = 0x80
	ADXLIntSingleTap byte = 0x40
	ADXLIntDoubleTap byte = 0x20
	ADXLIntActivity  byte = 0x10
	ADXLIntFreeFall  byte = 0x04
)

// TAP_AXES enable bits.
const (
	ADXLTapX byte = 0x04
	ADXLTapY byte = 0x02
	ADXLTapZ byte = 0x01
)

// ADXL345 is a three-axis accelerometer with tap detection.
// Samples are 13-bit left-justified or 10-bit right-justified per the
// data format register, always little-endian on the wire.
type ADXL345 struct {
	bus  i2c.Bus
	addr byte
	log  *log2.Log
}

// NewADXL345 probes the fixed device ID before returning a driver, so
// a miswired address fails at construction instead of at first sample.
func NewADXL345(bus i2c.Bus, addr byte, log *log2.Log) (*ADXL345, error) {
	if addr == 0 {
		addr = ADXL345Addr
	}
	a := &ADXL345{bus: bus, addr: addr, log: log}
	id, err := i2c.ReadReg(bus, addr, adxlDevID)
	if err != nil {
		return nil, errors.Annotate(err, "adxl345 probe")
	}
	if id != adxlDeviceID {
		return nil, errors.Errorf("adxl345 addr=%02x devid=%02x want=%02x", addr, id, adxlDeviceID)
	}
	return a, nil
}

func (a *ADXL345) SetPowerControl(v byte) error {
	return errors.Annotate(i2c.WriteReg(a.bus, a.addr, adxlPowerCtl, v), "adxl345")
}

func (a *ADXL345) SetDataFormat(v byte) error {
	return errors.Annotate(i2c.WriteReg(a.bus, a.addr, adxlDataFormat, v), "adxl345")
}

func (a *ADXL345) SetRate(v byte) error {
	return errors.Annotate(i2c.WriteReg(a.bus, a.addr, adxlBWRate, v), "adxl345")
}

// InitSingleTap arms single tap detection: thresh is 62.5mg units,
// dur is 625us units, axes is a mask of ADXLTap? bits ORed into the
// current tap axes.
func (a *ADXL345) InitSingleTap(thresh, dur, axes byte) error {
	if err := i2c.WriteReg(a.bus, a.addr, adxlThreshTap, thresh); err != nil {
		return errors.Annotate(err, "adxl345 single tap")
	}
	if err := i2c.WriteReg(a.bus, a.addr, adxlDur, dur); err != nil {
		return errors.Annotate(err, "adxl345 single tap")
	}
	return errors.Annotate(i2c.SetRegBits(a.bus, a.addr, adxlTapAxes, axes), "adxl345 single tap")
}

// InitDoubleTap additionally sets the latency and second-tap window,
// both in 1.25ms units.
func (a *ADXL345) InitDoubleTap(thresh, dur, latent, window, axes byte) error {
	for _, w := range [][2]byte{
		{adxlThreshTap, thresh},
		{adxlDur, dur},
		{adxlLatent, latent},
		{adxlWindow, window},
	} {
		if err := i2c.WriteReg(a.bus, a.addr, w[0], w[1]); err != nil {
			return errors.Annotate(err, "adxl345 double tap")
		}
	}
	return errors.Annotate(i2c.SetRegBits(a.bus, a.addr, adxlTapAxes, axes), "adxl345 double tap")
}

// Interrupts reads INT_SOURCE; the read also clears latched
// interrupts in the device.
func (a *ADXL345) Interrupts() (byte, error) {
	b, err := i2c.ReadReg(a.bus, a.addr, adxlIntSource)
	return b, errors.Annotate(err, "adxl345")
}

func (a *ADXL345) EnableInterrupts(mask byte) error {
	return errors.Annotate(i2c.WriteReg(a.bus, a.addr, adxlIntEnable, mask), "adxl345")
}

// MapInterrupts routes interrupt sources to the INT1/INT2 pins, bit
// clear for INT1, set for INT2.
func (a *ADXL345) MapInterrupts(mask byte) error {
	return errors.Annotate(i2c.WriteReg(a.bus, a.addr, adxlIntMap, mask), "adxl345")
}

// Accel burst-reads all three axes from one measurement.
func (a *ADXL345) Accel() (XYZ, error) {
	var buf [6]byte
	if err := i2c.ReadRegs(a.bus, a.addr, adxlDataX, buf[:]); err != nil {
		return XYZ{}, errors.Annotate(err, "adxl345 sample")
	}
	return XYZ{
		X: le16(buf[0], buf[1]),
		Y: le16(buf[2], buf[3]),
		Z: le16(buf[4], buf[5]),
	}, nil
}
