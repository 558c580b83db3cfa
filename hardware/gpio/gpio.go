// Package gpio models an 8-bit wide IO port as a set of named operations:
// direction select, drive high/low, read levels. Keypad scanners talk to
// this interface only; real pins are served by CdevPort over the Linux
// gpio character device, tests use MemPort.
package gpio

// Port is a group of up to 8 pins addressed by bit mask.
// Implementations must tolerate mask bits that map to no real pin.
// Operations are fire-and-forget; hardware faults are latched and
// reported by Err.
type Port interface {
	// SetInput switches masked pins to input. Inputs are expected to be
	// pulled up: an undriven input reads high.
	SetInput(mask byte)
	// SetOutput switches masked pins to output, keeping their last
	// driven level.
	SetOutput(mask byte)
	// Set drives masked output pins high.
	Set(mask byte)
	// Clear drives masked output pins low.
	Clear(mask byte)
	// Read returns current levels of all pins, input or output.
	Read() byte
	// Err returns the first hardware error since construction, nil so far.
	Err() error
}
