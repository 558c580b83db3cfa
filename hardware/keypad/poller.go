package keypad

import (
	"time"

	"github.com/temoto/alive/v2"
	"github.com/temoto/vender/helpers/atomic_clock"

	"github.com/hollingerc/avrkit/log2"
)

const DefaultScanInterval = 10 * time.Millisecond

// Scanner is one debounce tick: MatrixKeypad and PushbuttonSet both
// qualify. Scan reports whether the tick produced a new event.
type Scanner interface {
	Scan() bool
}

// Poller drives a Scanner at a fixed interval from a background
// goroutine. Debounce and hold times count scan invocations, so the
// interval is the time base for the whole keypad; the poller measures
// its own jitter and complains when a tick arrives at more than twice
// the configured interval.
type Poller struct {
	log      *log2.Log
	alive    *alive.Alive
	scanner  Scanner
	interval time.Duration
	lastScan *atomic_clock.Clock
	notify   chan struct{}
}

func NewPoller(s Scanner, interval time.Duration, log *log2.Log) *Poller {
	if interval <= 0 {
		interval = DefaultScanInterval
	}
	return &Poller{
		log:      log,
		alive:    alive.NewAlive(),
		scanner:  s,
		interval: interval,
		lastScan: atomic_clock.New(0),
		notify:   make(chan struct{}, 1),
	}
}

func (p *Poller) Start() {
	if !p.alive.Add(1) {
		panic("code error keypad.Poller.Start after Stop")
	}
	go p.loop()
}

func (p *Poller) Stop() { p.alive.Stop() }

func (p *Poller) Wait() { p.alive.Wait() }

// Notify signals "at least one key event happened"; drain flags from
// the scanner afterwards. Capacity 1, never blocks the scan loop.
func (p *Poller) Notify() <-chan struct{} { return p.notify }

// LastScan returns the completion time of the most recent scan, zero
// before the first one.
func (p *Poller) LastScan() time.Time {
	ns := p.lastScan.UnixNano()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}

func (p *Poller) loop() {
	defer p.alive.Done()

	tick := time.NewTicker(p.interval)
	defer tick.Stop()
	stopch := p.alive.StopChan()

	for {
		select {
		case <-tick.C:
			if !p.lastScan.IsZero() {
				if gap := atomic_clock.Since(p.lastScan); gap > 2*p.interval {
					p.log.Debugf("keypad scan gap=%v interval=%v", gap, p.interval)
				}
			}
			event := p.scanner.Scan()
			p.lastScan.SetNow()
			if event {
				select {
				case p.notify <- struct{}{}:
				default:
				}
			}

		case <-stopch:
			return
		}
	}
}
