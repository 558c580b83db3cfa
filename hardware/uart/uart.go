// Package uart is a byte-oriented serial transmit/receive path over a
// Linux tty. Writes go through a fixed-size ring drained by a
// background goroutine, so callers never block on a slow line; the
// ring size is a construction parameter sized to the expected burst.
package uart

import (
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/hollingerc/avrkit/log2"
)

const DefaultTxRingSize = 64

// drainInterval paces the transmitter when the ring runs empty.
const drainInterval = 1 * time.Millisecond

type Config struct {
	Device string
	// Baud must be one of the standard rates, default 9600.
	Baud int
	// TxRingSize of 0 selects DefaultTxRingSize.
	TxRingSize int
}

type Uart struct {
	log   *log2.Log
	f     *os.File
	t2    termios2
	ring  *txRing
	alive *alive.Alive
	kick  chan struct{}

	lk  sync.Mutex
	err error
}

// Open configures the tty raw 8N1 at the given baud rate and starts
// the transmit goroutine.
func Open(cfg Config, log *log2.Log) (*Uart, error) {
	if cfg.Baud == 0 {
		cfg.Baud = 9600
	}
	f, err := os.OpenFile(cfg.Device, syscall.O_RDWR|syscall.O_NOCTTY, 0600)
	if err != nil {
		return nil, errors.Annotatef(err, "uart open device=%s", cfg.Device)
	}
	u := &Uart{
		log:   log,
		f:     f,
		ring:  newTxRing(cfg.TxRingSize),
		alive: alive.NewAlive(),
		kick:  make(chan struct{}, 1),
	}
	if err = resetTermios(f.Fd(), &u.t2, cfg.Baud); err != nil {
		f.Close()
		return nil, errors.Annotatef(err, "uart termios device=%s baud=%d", cfg.Device, cfg.Baud)
	}
	u.alive.Add(1)
	go u.drainLoop()
	return u, nil
}

func (u *Uart) Close() error {
	u.alive.Stop()
	u.alive.Wait()
	return u.f.Close()
}

// Err returns the first transmit error since Open.
func (u *Uart) Err() error {
	u.lk.Lock()
	defer u.lk.Unlock()
	return u.err
}

// PutChar writes one byte directly, blocking until the tty accepts it.
func (u *Uart) PutChar(c byte) error {
	_, err := u.f.Write([]byte{c})
	return errors.Annotate(err, "uart putchar")
}

// GetChar blocks until one byte arrives.
func (u *Uart) GetChar() (byte, error) {
	var buf [1]byte
	_, err := u.f.Read(buf[:])
	return buf[0], errors.Annotate(err, "uart getchar")
}

// Put queues p for background transmission. Reports false without
// queueing anything when p does not fit in the ring's free space.
func (u *Uart) Put(p []byte) bool {
	if len(p) == 0 {
		return true
	}
	if !u.ring.Push(p) {
		u.log.Debugf("uart tx ring full len=%d cap=%d", len(p), u.ring.Cap())
		return false
	}
	select {
	case u.kick <- struct{}{}:
	default:
	}
	return true
}

// PutString queues s for background transmission.
func (u *Uart) PutString(s string) bool { return u.Put([]byte(s)) }

// TxPending returns the number of queued, not yet transmitted bytes.
func (u *Uart) TxPending() int { return u.ring.Len() }

func (u *Uart) drainLoop() {
	defer u.alive.Done()

	buf := make([]byte, u.ring.Cap())
	stopch := u.alive.StopChan()
	for {
		for {
			n := u.ring.Pop(buf)
			if n == 0 {
				break
			}
			if _, err := u.f.Write(buf[:n]); err != nil {
				u.fail(errors.Annotate(err, "uart tx"))
				return
			}
		}
		select {
		case <-u.kick:
		case <-time.After(drainInterval):
		case <-stopch:
			return
		}
	}
}

func (u *Uart) fail(e error) {
	u.lk.Lock()
	if u.err == nil {
		u.err = e
	}
	u.lk.Unlock()
	u.log.Errorf("uart: %v", e)
}
