package i2c

import "github.com/juju/errors"

// Register access helpers shared by the sensor drivers. Every device
// on this repo's buses follows the same convention: write the register
// address, then read or write the payload.

func ReadReg(b Bus, addr, reg byte) (byte, error) {
	var buf [1]byte
	if err := b.Tx(addr, []byte{reg}, buf[:]); err != nil {
		return 0, errors.Annotatef(err, "readreg addr=%02x reg=%02x", addr, reg)
	}
	return buf[0], nil
}

// ReadRegs burst-reads len(dst) bytes starting at reg. Multi-byte
// sensor samples must use one burst so the device's register lock
// keeps all axes from the same measurement.
func ReadRegs(b Bus, addr, reg byte, dst []byte) error {
	err := b.Tx(addr, []byte{reg}, dst)
	return errors.Annotatef(err, "readregs addr=%02x reg=%02x len=%d", addr, reg, len(dst))
}

func WriteReg(b Bus, addr, reg, value byte) error {
	err := b.Tx(addr, []byte{reg, value}, nil)
	return errors.Annotatef(err, "writereg addr=%02x reg=%02x value=%02x", addr, reg, value)
}

// SetRegBits read-modify-writes reg, setting the bits of mask.
func SetRegBits(b Bus, addr, reg, mask byte) error {
	old, err := ReadReg(b, addr, reg)
	if err != nil {
		return errors.Trace(err)
	}
	if old&mask == mask {
		return nil
	}
	return WriteReg(b, addr, reg, old|mask)
}
