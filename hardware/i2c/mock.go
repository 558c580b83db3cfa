package i2c

import (
	"sync"

	"github.com/juju/errors"
)

// MockBus is a register-space simulation of an i2c segment: each slave
// address owns 256 byte registers, Tx interprets the first written
// byte as the register pointer like real register-mapped devices do.
// Sensor tests preload registers and inspect what the driver wrote.
type MockBus struct {
	lk      sync.Mutex
	devices map[byte]*[256]byte

	// Writes logs every register write as {addr, reg, value}.
	Writes [][3]byte
	// Fail, when set, is returned by every Tx.
	Fail error
}

func NewMockBus() *MockBus {
	return &MockBus{devices: make(map[byte]*[256]byte)}
}

// Device returns the register file of a slave, creating it zeroed.
func (m *MockBus) Device(addr byte) *[256]byte {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.device(addr)
}

func (m *MockBus) device(addr byte) *[256]byte {
	d, ok := m.devices[addr]
	if !ok {
		d = new([256]byte)
		m.devices[addr] = d
	}
	return d
}

func (m *MockBus) Init() error  { return nil }
func (m *MockBus) Close() error { return nil }

func (m *MockBus) Tx(addr byte, bw []byte, br []byte) error {
	m.lk.Lock()
	defer m.lk.Unlock()

	if m.Fail != nil {
		return m.Fail
	}
	if len(bw) == 0 && len(br) == 0 {
		return errors.Errorf("mock i2c.Tx both bw=br=nil nothing to do")
	}

	d := m.device(addr)
	reg := 0
	if len(bw) > 0 {
		reg = int(bw[0])
		for i, v := range bw[1:] {
			d[(reg+i)&0xff] = v
			m.Writes = append(m.Writes, [3]byte{addr, byte((reg + i) & 0xff), v})
		}
	}
	for i := range br {
		br[i] = d[(reg+i)&0xff]
	}
	return nil
}
