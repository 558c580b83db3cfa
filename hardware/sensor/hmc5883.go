package sensor

import (
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/i2c"
	"github.com/hollingerc/avrkit/log2"
)

const HMC5883Addr = 0x1e

// HMC5883 register map.
const (
	hmcCRA    = 0x00
	hmcCRB    = 0x01
	hmcMode   = 0x02
	hmcDataX  = 0x03
	hmcDataY  = 0x05
	hmcDataZ  = 0x07
	hmcStatus = 0x09
	hmcIDA    = 0x0a
)

// CRA sample averaging and data output rates.
const (
	HMCAverage1 byte = 0x00
	HMCAverage2 byte = 0x20
	HMCAverage4 byte = 0x40
	HMCAverage8 byte = 0x60

	HMCRate0_75 byte = 0x00
	HMCRate1_5  byte = 0x04
	HMCRate3    byte = 0x08
	HMCRate7_5  byte = 0x0c
	HMCRate15   byte = 0x10
	HMCRate30   byte = 0x14
	HMCRate75   byte = 0x18
)

// Mode register values.
const (
	HMCModeContinuous byte = 0x00
	HMCModeSingle     byte = 0x01
	HMCModeIdle       byte = 0x03
)

// Status register bits.
const (
	HMCStatusLock  byte = 0x02
	HMCStatusReady byte = 0x01
)

// Identification registers read back "H43".
var hmcIdent = [3]byte{'H', '4', '3'}

// HMC5883 is a three-axis magnetometer. All samples are big-endian.
type HMC5883 struct {
	bus  i2c.Bus
	addr byte
	log  *log2.Log
}

func NewHMC5883(bus i2c.Bus, addr byte, log *log2.Log) (*HMC5883, error) {
	if addr == 0 {
		addr = HMC5883Addr
	}
	h := &HMC5883{bus: bus, addr: addr, log: log}
	var id [3]byte
	if err := i2c.ReadRegs(bus, addr, hmcIDA, id[:]); err != nil {
		return nil, errors.Annotate(err, "hmc5883 probe")
	}
	if id != hmcIdent {
		return nil, errors.Errorf("hmc5883 addr=%02x ident=%q want=%q", addr, id[:], hmcIdent[:])
	}
	return h, nil
}

// Init sets averaging/rate (CRA), gain (CRB) and operating mode.
func (h *HMC5883) Init(cra, crb, mode byte) error {
	for _, w := range [][2]byte{{hmcCRA, cra}, {hmcCRB, crb}, {hmcMode, mode}} {
		if err := i2c.WriteReg(h.bus, h.addr, w[0], w[1]); err != nil {
			return errors.Annotate(err, "hmc5883 init")
		}
	}
	return nil
}

func (h *HMC5883) Status() (byte, error) {
	b, err := i2c.ReadReg(h.bus, h.addr, hmcStatus)
	return b, errors.Annotate(err, "hmc5883")
}

// Mag burst-reads all six data registers in one transaction, which
// also releases the device's output register lock.
func (h *HMC5883) Mag() (XYZ, error) {
	var buf [6]byte
	if err := i2c.ReadRegs(h.bus, h.addr, hmcDataX, buf[:]); err != nil {
		return XYZ{}, errors.Annotate(err, "hmc5883 sample")
	}
	return XYZ{
		X: be16(buf[0], buf[1]),
		Y: be16(buf[2], buf[3]),
		Z: be16(buf[4], buf[5]),
	}, nil
}
