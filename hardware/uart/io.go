package uart

import (
	"os"
	"syscall"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

const (
	cNCCS     = 19
	cTCSETSF2 = 0x402c542d
)

type cc_t byte
type speed_t uint32
type tcflag_t uint32
type termios2 struct {
	c_iflag  tcflag_t    // input mode flags
	c_oflag  tcflag_t    // output mode flags
	c_cflag  tcflag_t    // control mode flags
	c_lflag  tcflag_t    // local mode flags
	c_line   cc_t        // line discipline
	c_cc     [cNCCS]cc_t // control characters
	c_ispeed speed_t     // input speed
	c_ospeed speed_t     // output speed
}

var baudBits = map[int]speed_t{
	1200:   unix.B1200,
	2400:   unix.B2400,
	4800:   unix.B4800,
	9600:   unix.B9600,
	19200:  unix.B19200,
	38400:  unix.B38400,
	57600:  unix.B57600,
	115200: unix.B115200,
}

// resetTermios puts the tty in raw 8N1 mode: no echo, no line
// discipline, reads return as soon as one byte is available.
func resetTermios(fd uintptr, t2 *termios2, baud int) error {
	speed, ok := baudBits[baud]
	if !ok {
		return errors.NotSupportedf("baud=%d", baud)
	}
	*t2 = termios2{
		c_iflag: unix.IGNBRK,
		// Bnnn constants are CBAUD bit patterns, they belong in cflag;
		// ispeed/ospeed repeat them for the termios2 BOTHER path
		c_cflag:  syscall.CLOCAL | syscall.CREAD | syscall.CS8 | tcflag_t(speed),
		c_ispeed: speed,
		c_ospeed: speed,
	}
	t2.c_cc[syscall.VMIN] = 1
	t2.c_cc[syscall.VTIME] = 0
	// TCSETSF2 also flushes whatever the previous owner left queued
	return ioctl(fd, uintptr(cTCSETSF2), uintptr(unsafe.Pointer(t2)))
}

func ioctl(fd uintptr, op, arg uintptr) error {
	r, _, errno := syscall.Syscall(syscall.SYS_IOCTL, fd, op, arg)
	if errno != 0 {
		return os.NewSyscallError("SYS_IOCTL", errno)
	} else if r != 0 {
		return errors.Errorf("unknown error from SYS_IOCTL")
	}
	return nil
}
