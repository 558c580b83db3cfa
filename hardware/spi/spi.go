// Package spi opens a SPI master through periph.io and exposes the
// single full-duplex exchange the drivers in this repo need.
package spi

import (
	"sync"

	"github.com/juju/errors"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/conn/spi/spireg"
	"periph.io/x/periph/host"

	"github.com/hollingerc/avrkit/log2"
)

const DefaultSpeed = 500 * physic.KiloHertz

var hostInitOnce sync.Once

type Config struct {
	// Bus is a periph spireg name, e.g. "/dev/spidev0.0" or "SPI0.0".
	Bus string
	// Speed of 0 selects DefaultSpeed.
	Speed physic.Frequency
	// Mode is the usual CPOL/CPHA pair, 0..3.
	Mode spi.Mode
}

// Master owns one opened SPI port with a single chip select.
type Master struct {
	log  *log2.Log
	port spi.PortCloser
	conn spi.Conn
	lk   sync.Mutex
}

func Open(cfg Config, log *log2.Log) (*Master, error) {
	var hostErr error
	hostInitOnce.Do(func() { _, hostErr = host.Init() })
	if hostErr != nil {
		return nil, errors.Annotate(hostErr, "periph/init")
	}

	port, err := spireg.Open(cfg.Bus)
	if err != nil {
		return nil, errors.Annotatef(err, "SPI open bus=%s", cfg.Bus)
	}
	speed := cfg.Speed
	if speed == 0 {
		speed = DefaultSpeed
	}
	conn, err := port.Connect(speed, cfg.Mode, 8)
	if err != nil {
		port.Close()
		return nil, errors.Annotatef(err, "SPI connect bus=%s speed=%s mode=%d", cfg.Bus, speed, cfg.Mode)
	}
	m := &Master{log: log, port: port, conn: conn}
	m.log.Debugf("spi open bus=%s speed=%s mode=%d", cfg.Bus, speed, cfg.Mode)
	return m, nil
}

// Tx clocks len(w) bytes out while reading the same number in.
// r may be nil for a write-only transfer.
func (m *Master) Tx(w, r []byte) error {
	m.lk.Lock()
	defer m.lk.Unlock()
	if r == nil {
		r = make([]byte, len(w))
	}
	return errors.Annotate(m.conn.Tx(w, r), "spi tx")
}

// Transfer exchanges a single byte, the smallest unit the underlying
// shift register moves.
func (m *Master) Transfer(b byte) (byte, error) {
	var r [1]byte
	if err := m.Tx([]byte{b}, r[:]); err != nil {
		return 0, errors.Trace(err)
	}
	return r[0], nil
}

func (m *Master) Close() error {
	m.lk.Lock()
	defer m.lk.Unlock()
	return m.port.Close()
}
