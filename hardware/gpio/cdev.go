package gpio

import (
	"github.com/juju/errors"
	cdev "github.com/temoto/gpio-cdev-go"

	"github.com/hollingerc/avrkit/log2"
)

// CdevPort adapts up to 8 lines of a Linux gpiochip to the Port
// interface. The chardev API fixes line direction at request time, so a
// direction change closes and reopens the affected handle group. Keypad
// scanners flip directions every scan; on a busy chip consider
// dedicating lines so the groups stay stable.
type CdevPort struct {
	log   *log2.Log
	chip  cdev.Chiper
	label string

	// line number per bit position; valid marks bits that are wired
	lines [8]uint32
	valid byte

	dirOut byte
	shadow byte // last driven output levels

	inH  cdev.Lineser
	outH cdev.Lineser
	setf [8]cdev.LineSetFunc

	err error
}

// NewCdevPort opens chipName and claims the lines named in the
// bit→line table for the bits set in valid. All pins start as inputs.
func NewCdevPort(chipName, label string, lines [8]uint32, valid byte, log *log2.Log) (*CdevPort, error) {
	if valid == 0 {
		return nil, errors.NotValidf("gpio: empty line mask chip=%s", chipName)
	}
	chip, err := cdev.Open(chipName, label)
	if err != nil {
		return nil, errors.Annotatef(err, "gpio open chip=%s", chipName)
	}
	p := &CdevPort{
		log:   log,
		chip:  chip,
		label: label,
		lines: lines,
		valid: valid,
	}
	if err = p.rebuild(); err != nil {
		chip.Close()
		return nil, errors.Trace(err)
	}
	return p, nil
}

func (p *CdevPort) Close() error {
	p.closeHandles()
	return p.chip.Close()
}

func (p *CdevPort) SetInput(mask byte) {
	mask &= p.valid
	if p.dirOut&mask == 0 {
		return
	}
	p.dirOut &^= mask
	p.fail(p.rebuild())
}

func (p *CdevPort) SetOutput(mask byte) {
	mask &= p.valid
	if p.dirOut&mask == mask {
		return
	}
	p.dirOut |= mask
	p.fail(p.rebuild())
}

func (p *CdevPort) Set(mask byte) { p.drive(mask, 1) }

func (p *CdevPort) Clear(mask byte) { p.drive(mask, 0) }

func (p *CdevPort) Read() byte {
	levels := p.shadow & p.dirOut
	if p.inH == nil {
		return levels
	}
	data, err := p.inH.Read()
	if err != nil {
		p.fail(errors.Annotate(err, "gpio read"))
		// failed inputs read high, same as undriven pull-up
		return levels | (p.valid &^ p.dirOut)
	}
	i := 0
	for bit := byte(0); bit < 8; bit++ {
		m := byte(1) << bit
		if p.valid&m == 0 || p.dirOut&m != 0 {
			continue
		}
		if data.Values[i] != 0 {
			levels |= m
		}
		i++
	}
	return levels
}

func (p *CdevPort) Err() error { return p.err }

func (p *CdevPort) drive(mask byte, value byte) {
	mask &= p.valid & p.dirOut
	if mask == 0 {
		return
	}
	if value != 0 {
		p.shadow |= mask
	} else {
		p.shadow &^= mask
	}
	for bit := byte(0); bit < 8; bit++ {
		m := byte(1) << bit
		if mask&m != 0 && p.setf[bit] != nil {
			p.setf[bit](value)
		}
	}
	if p.outH != nil {
		p.fail(p.outH.Flush())
	}
}

// rebuild reopens the input and output handle groups after a direction
// change. Output pins keep their shadowed levels.
func (p *CdevPort) rebuild() error {
	p.closeHandles()

	inLines := p.group(p.valid &^ p.dirOut)
	outLines := p.group(p.valid & p.dirOut)

	if len(inLines) > 0 {
		h, err := p.chip.OpenLines(cdev.GPIOHANDLE_REQUEST_INPUT, p.label, inLines...)
		if err != nil {
			return errors.Annotatef(err, "gpio request input lines=%v", inLines)
		}
		p.inH = h
	}
	if len(outLines) > 0 {
		h, err := p.chip.OpenLines(cdev.GPIOHANDLE_REQUEST_OUTPUT, p.label, outLines...)
		if err != nil {
			return errors.Annotatef(err, "gpio request output lines=%v", outLines)
		}
		p.outH = h
		for bit := byte(0); bit < 8; bit++ {
			m := byte(1) << bit
			if p.valid&m != 0 && p.dirOut&m != 0 {
				p.setf[bit] = h.SetFunc(p.lines[bit])
				if p.shadow&m != 0 {
					p.setf[bit](1)
				} else {
					p.setf[bit](0)
				}
			}
		}
		if err = h.Flush(); err != nil {
			return errors.Annotate(err, "gpio flush outputs")
		}
	}
	return nil
}

func (p *CdevPort) group(mask byte) []uint32 {
	ls := make([]uint32, 0, 8)
	for bit := byte(0); bit < 8; bit++ {
		if mask&(1<<bit) != 0 {
			ls = append(ls, p.lines[bit])
		}
	}
	return ls
}

func (p *CdevPort) closeHandles() {
	if p.inH != nil {
		p.inH.Close()
		p.inH = nil
	}
	if p.outH != nil {
		p.outH.Close()
		p.outH = nil
	}
	p.setf = [8]cdev.LineSetFunc{}
}

func (p *CdevPort) fail(e error) {
	if e == nil {
		return
	}
	if p.err == nil {
		p.err = e
	}
	p.log.Errorf("gpio chip label=%s: %v", p.label, e)
}
