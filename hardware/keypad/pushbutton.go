package keypad

import (
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/gpio"
	"github.com/hollingerc/avrkit/log2"
)

// Nibble of the port occupied by the buttons.
const (
	MaskLower byte = 0x0f
	MaskUpper byte = 0xf0
)

// Default assumes Run every 10ms, giving a one second hold.
const DefaultPushbuttonHoldTicks = 100

type pbState byte

const (
	pbNotProcessing pbState = iota
	pbClosedNotDebounced
	pbPressed
	pbHeld
	pbPressedReleasedNotDebounced
	pbHeldReleasedNotDebounced
)

// PushbuttonSet handles up to four buttons on a port nibble shared with
// an output-only peripheral. Each Run switches the nibble to input,
// advances the state machine one tick and restores output direction
// before returning, so the other device never sees the pins floating
// across calls. Single writer assumed: Run must not race with the
// peripheral using the same pins.
//
// Unlike the matrix scanner, one press episode tracks one code: the
// bitmask of buttons closed at detection. Pressing two buttons together
// yields one compound code, not two events.
type PushbuttonSet struct {
	log  *log2.Log
	port gpio.Port
	mask byte

	state     pbState
	code      byte
	holdTicks uint16
	holdTimer uint16

	pressedFlags byte
	heldFlags    byte
}

func NewPushbuttonSet(port gpio.Port, mask byte, holdTicks uint16, log *log2.Log) (*PushbuttonSet, error) {
	if mask != MaskLower && mask != MaskUpper {
		return nil, errors.NotValidf("pushbutton mask=%02x want lower or upper nibble", mask)
	}
	if holdTicks == 0 {
		holdTicks = DefaultPushbuttonHoldTicks
	}
	b := &PushbuttonSet{
		log:       log,
		port:      port,
		mask:      mask,
		holdTicks: holdTicks,
		holdTimer: holdTicks,
	}
	port.SetOutput(mask)
	return b, nil
}

// Run samples the buttons once. Call at a steady interval; debounce is
// one interval (closed on two consecutive calls), hold is holdTicks
// intervals. Pressed flags latch on debounced release, held flags latch
// the moment the hold timer expires.
func (b *PushbuttonSet) Run() {
	b.port.SetInput(b.mask)
	closed := ^b.port.Read() & b.mask

	switch b.state {
	case pbNotProcessing:
		if closed != 0 {
			b.code = closed
			b.state = pbClosedNotDebounced
		}

	case pbClosedNotDebounced:
		if closed == b.code {
			b.state = pbPressed
		} else {
			b.state = pbNotProcessing
		}

	case pbPressed:
		if closed == b.code {
			b.holdTimer--
			if b.holdTimer == 0 {
				b.holdTimer = b.holdTicks
				b.state = pbHeld
				b.heldFlags |= b.code
				b.log.Debugf("pushbutton held code=%02x", b.code)
			}
		} else {
			b.state = pbPressedReleasedNotDebounced
		}

	case pbHeld:
		if closed != b.code {
			b.state = pbHeldReleasedNotDebounced
		}

	case pbPressedReleasedNotDebounced:
		if closed != b.code {
			b.holdTimer = b.holdTicks
			b.state = pbNotProcessing
			b.pressedFlags |= b.code
			b.log.Debugf("pushbutton pressed code=%02x", b.code)
		}

	case pbHeldReleasedNotDebounced:
		if closed != b.code {
			b.state = pbNotProcessing
		}

	default:
		b.state = pbNotProcessing
	}

	b.port.SetOutput(b.mask)
}

// Scan adapts Run to the Poller contract: true when the tick latched a
// new pressed or held flag.
func (b *PushbuttonSet) Scan() bool {
	p0, h0 := b.pressedFlags, b.heldFlags
	b.Run()
	return b.pressedFlags != p0 || b.heldFlags != h0
}

// Flags packs held flags into one nibble and pressed flags into the
// other: lower-nibble buttons report pressed low / held high, upper-
// nibble buttons the reverse. Flags does not consume them, use Clear.
func (b *PushbuttonSet) Flags() byte {
	if b.mask == MaskLower {
		return (b.pressedFlags & MaskLower) | (b.heldFlags << 4)
	}
	return (b.heldFlags & MaskUpper) | (b.pressedFlags >> 4)
}

func (b *PushbuttonSet) Clear() {
	b.pressedFlags = 0
	b.heldFlags = 0
}

func (b *PushbuttonSet) SetHoldTicks(ticks uint16) {
	if ticks == 0 {
		ticks = 1
	}
	b.holdTicks = ticks
	if b.holdTimer > ticks {
		b.holdTimer = ticks
	}
}
