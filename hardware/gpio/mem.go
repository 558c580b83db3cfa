package gpio

import "sync"

// MemPort is a software port for tests and the interactive CLI.
// Input pins read from the `in` byte which defaults to all-high,
// matching pulled-up real inputs. ReadFunc, when set, overrides input
// levels per call so a test can model circuits where inputs depend on
// other pins (a keypad matrix row depends on which column is driven).
type MemPort struct {
	mu sync.Mutex
	// direction: 1=output
	dir byte
	out byte
	in  byte

	ReadFunc func(dir, out byte) byte
}

func NewMemPort() *MemPort {
	return &MemPort{in: 0xff}
}

func (p *MemPort) SetInput(mask byte) {
	p.mu.Lock()
	p.dir &^= mask
	p.mu.Unlock()
}

func (p *MemPort) SetOutput(mask byte) {
	p.mu.Lock()
	p.dir |= mask
	p.mu.Unlock()
}

func (p *MemPort) Set(mask byte) {
	p.mu.Lock()
	p.out |= mask
	p.mu.Unlock()
}

func (p *MemPort) Clear(mask byte) {
	p.mu.Lock()
	p.out &^= mask
	p.mu.Unlock()
}

func (p *MemPort) Read() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	in := p.in
	if p.ReadFunc != nil {
		in = p.ReadFunc(p.dir, p.out)
	}
	return (in &^ p.dir) | (p.out & p.dir)
}

func (p *MemPort) Err() error { return nil }

// SetLevels drives external input levels; pins configured as output
// ignore them.
func (p *MemPort) SetLevels(levels byte) {
	p.mu.Lock()
	p.in = levels
	p.mu.Unlock()
}

// Direction returns the current direction bits, 1=output.
func (p *MemPort) Direction() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dir
}

// Output returns the last driven levels regardless of direction.
func (p *MemPort) Output() byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out
}
