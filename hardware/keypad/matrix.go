// Package keypad debounces and classifies pushbutton input scanned over
// gpio ports. Scanners hold no timers of their own: the caller invokes
// Scan/Run at a steady interval and all durations are counted in scan
// invocations. Poller wraps that contract in a background loop.
package keypad

import (
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/gpio"
	"github.com/hollingerc/avrkit/log2"
)

type KeyState byte

const (
	KeyIdle KeyState = iota
	KeyPressedNotDebounced
	KeyPressed
	KeyHeld
	KeyReleasedNotDebounced
)

func (s KeyState) String() string {
	switch s {
	case KeyIdle:
		return "idle"
	case KeyPressedNotDebounced:
		return "pressed-not-debounced"
	case KeyPressed:
		return "pressed"
	case KeyHeld:
		return "held"
	case KeyReleasedNotDebounced:
		return "released-not-debounced"
	}
	return "unknown!"
}

const (
	flagPressed byte = 1 << iota
	flagHeld
	flagChanged
)

// Defaults assume a 1ms scan interval, same rates work at 10ms.
const (
	DefaultDebounceTicks = 10
	DefaultHoldTicks     = 1000
)

type key struct {
	code     byte
	state    KeyState
	flags    byte
	debounce uint16
	hold     uint16
}

type MatrixConfig struct {
	Rows    uint8
	Cols    uint8
	RowMask byte
	ColMask byte
	// Codes identifies each key, row-major: index row*Cols+col.
	// Zero is reserved as the no-key marker.
	Codes         []byte
	DebounceTicks uint16
	HoldTicks     uint16
}

// MatrixKeypad scans an R×C key grid: each column pin is switched to
// output and driven low in turn while row pins are read. Rows idle high
// through pull-ups, an active key reads low. Every key runs its own
// debounce/hold state machine, so simultaneous presses are independent.
type MatrixKeypad struct {
	log  *log2.Log
	rows gpio.Port
	cols gpio.Port

	numRows uint8
	numCols uint8
	rowMask byte
	colMask byte

	debounceTicks uint16
	holdTicks     uint16

	keys []key
}

func NewMatrix(rows, cols gpio.Port, cfg MatrixConfig, log *log2.Log) (*MatrixKeypad, error) {
	total := int(cfg.Rows) * int(cfg.Cols)
	if total == 0 || total > 64 {
		return nil, errors.NotValidf("keypad matrix size rows=%d cols=%d", cfg.Rows, cfg.Cols)
	}
	if len(cfg.Codes) != total {
		return nil, errors.NotValidf("keypad codes len=%d want=%d", len(cfg.Codes), total)
	}
	if cfg.RowMask == 0 || cfg.ColMask == 0 {
		return nil, errors.NotValidf("keypad empty pin mask row=%02x col=%02x", cfg.RowMask, cfg.ColMask)
	}
	if popcount(cfg.RowMask) < cfg.Rows || popcount(cfg.ColMask) < cfg.Cols {
		return nil, errors.NotValidf("keypad mask narrower than matrix row=%02x col=%02x", cfg.RowMask, cfg.ColMask)
	}
	m := &MatrixKeypad{
		log:           log,
		rows:          rows,
		cols:          cols,
		numRows:       cfg.Rows,
		numCols:       cfg.Cols,
		rowMask:       cfg.RowMask,
		colMask:       cfg.ColMask,
		debounceTicks: cfg.DebounceTicks,
		holdTicks:     cfg.HoldTicks,
		keys:          make([]key, total),
	}
	if m.debounceTicks == 0 {
		m.debounceTicks = DefaultDebounceTicks
	}
	if m.holdTicks == 0 {
		m.holdTicks = DefaultHoldTicks
	}
	for i := range m.keys {
		if cfg.Codes[i] == 0 {
			return nil, errors.NotValidf("keypad zero code index=%d", i)
		}
		m.keys[i].code = cfg.Codes[i]
		m.keys[i].state = KeyIdle
	}

	// rows are read while a column is driven low; keep them input with
	// pull-ups, columns idle as inputs between scans
	rows.SetInput(cfg.RowMask)
	cols.SetInput(cfg.ColMask)
	return m, nil
}

// Scan walks every configured column once, driving it low and sampling
// all rows. Reports whether any key newly reached Pressed or Held.
// A mask with fewer set bits than configured rows/cols aborts the pass
// instead of spinning.
func (m *MatrixKeypad) Scan() bool {
	valid := false

	colBit := byte(1)
	colBudget := 8
	for col := uint8(0); col < m.numCols; col++ {
		for m.colMask&colBit == 0 {
			colBit <<= 1
			colBudget--
			if colBudget == 0 {
				return valid
			}
		}

		m.cols.SetOutput(colBit)
		m.cols.Clear(colBit)

		rowBit := byte(1)
		rowBudget := 8
		for row := uint8(0); row < m.numRows; row++ {
			for m.rowMask&rowBit == 0 {
				rowBit <<= 1
				rowBudget--
				if rowBudget == 0 {
					m.releaseColumn(colBit)
					return valid
				}
			}

			idx := int(row)*int(m.numCols) + int(col)
			active := m.rows.Read()&rowBit == 0
			if m.step(&m.keys[idx], active) {
				valid = true
			}

			rowBit <<= 1
			rowBudget--
		}

		m.releaseColumn(colBit)
		colBit <<= 1
		colBudget--
	}
	return valid
}

func (m *MatrixKeypad) releaseColumn(colBit byte) {
	m.cols.Set(colBit)
	m.cols.SetInput(colBit)
}

// step advances one key by one scan tick. A key continuously active
// from idle reaches Pressed on scan number debounceTicks, counting the
// detecting scan as the first, and Held after holdTicks further scans.
func (m *MatrixKeypad) step(k *key, active bool) bool {
	switch k.state {
	case KeyIdle:
		if active {
			if m.debounceTicks <= 1 {
				return m.confirmPress(k)
			}
			k.state = KeyPressedNotDebounced
			k.debounce = m.debounceTicks - 1
		}

	case KeyPressedNotDebounced:
		if !active {
			k.state = KeyIdle
			break
		}
		k.debounce--
		if k.debounce == 0 {
			return m.confirmPress(k)
		}

	case KeyPressed:
		if !active {
			k.state = KeyReleasedNotDebounced
			k.debounce = m.debounceTicks
			break
		}
		k.hold--
		if k.hold == 0 {
			k.state = KeyHeld
			k.flags |= flagHeld | flagChanged
			m.log.Debugf("keypad held code=%02x", k.code)
			return true
		}

	case KeyHeld:
		if !active {
			k.state = KeyReleasedNotDebounced
			k.debounce = m.debounceTicks
		}

	case KeyReleasedNotDebounced:
		if !active {
			k.debounce--
			if k.debounce == 0 {
				k.state = KeyIdle
				k.flags |= flagChanged
			}
		}

	default:
		k.state = KeyIdle
	}
	return false
}

func (m *MatrixKeypad) confirmPress(k *key) bool {
	k.state = KeyPressed
	k.flags |= flagPressed | flagChanged
	k.hold = m.holdTicks
	m.log.Debugf("keypad pressed code=%02x", k.code)
	return true
}

// Pressed returns codes of keys with an unconsumed press and clears
// that flag. Nil when nothing is pending.
func (m *MatrixKeypad) Pressed() []byte { return m.collect(flagPressed) }

// Held returns codes of keys with an unconsumed hold and clears that
// flag. Nil when nothing is pending.
func (m *MatrixKeypad) Held() []byte { return m.collect(flagHeld) }

func (m *MatrixKeypad) collect(flag byte) []byte {
	var out []byte
	for i := range m.keys {
		if m.keys[i].flags&flag != 0 {
			out = append(out, m.keys[i].code)
			m.keys[i].flags &^= flag
		}
	}
	return out
}

// Status copies the state of every key into dst and reports whether
// anything changed since the previous call, clearing the change marks.
func (m *MatrixKeypad) Status(dst []KeyState) bool {
	changed := false
	for i := range m.keys {
		if i < len(dst) {
			dst[i] = m.keys[i].state
		}
		if m.keys[i].flags&flagChanged != 0 {
			m.keys[i].flags &^= flagChanged
			changed = true
		}
	}
	return changed
}

func (m *MatrixKeypad) Len() int { return len(m.keys) }

// SetDebounceTicks changes the debounce interval, in Scan invocations.
func (m *MatrixKeypad) SetDebounceTicks(ticks uint16) {
	if ticks == 0 {
		ticks = 1
	}
	m.debounceTicks = ticks
}

// SetHoldTicks changes the press-to-hold interval, in Scan invocations.
func (m *MatrixKeypad) SetHoldTicks(ticks uint16) {
	if ticks == 0 {
		ticks = 1
	}
	m.holdTicks = ticks
}

func popcount(b byte) uint8 {
	var n uint8
	for ; b != 0; b &= b - 1 {
		n++
	}
	return n
}
