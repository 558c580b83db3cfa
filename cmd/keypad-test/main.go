// Bring-up tool: scan a matrix keypad on real gpio lines and print
// key events. Useful to verify wiring and pick debounce values before
// writing a config.
package main

import (
	"flag"
	"strconv"
	"strings"
	"time"

	"github.com/hollingerc/avrkit/hardware/gpio"
	"github.com/hollingerc/avrkit/hardware/keypad"
	"github.com/hollingerc/avrkit/log2"
)

func main() {
	flagChip := flag.String("chip", "gpiochip0", "gpio chip name or /dev path")
	flagRows := flag.String("rows", "4,5,6,7", "row line offsets, comma separated")
	flagCols := flag.String("cols", "8,9,10", "column line offsets")
	flagCodes := flag.String("codes", "123456789*0#", "key codes row-major")
	flagDebounce := flag.Int("debounce", 2, "debounce ticks")
	flagHold := flag.Int("hold", 100, "hold ticks")
	flagInterval := flag.Duration("interval", 10*time.Millisecond, "scan interval")
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	rowLines := parseLines(log, *flagRows)
	colLines := parseLines(log, *flagCols)

	rows, err := gpio.NewCdevPort(*flagChip, "keypad-test-rows", packLines(rowLines), mask(len(rowLines)), log)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()
	cols, err := gpio.NewCdevPort(*flagChip, "keypad-test-cols", packLines(colLines), mask(len(colLines)), log)
	if err != nil {
		log.Fatal(err)
	}
	defer cols.Close()

	kp, err := keypad.NewMatrix(rows, cols, keypad.MatrixConfig{
		Rows:          uint8(len(rowLines)),
		Cols:          uint8(len(colLines)),
		RowMask:       mask(len(rowLines)),
		ColMask:       mask(len(colLines)),
		Codes:         []byte(*flagCodes),
		DebounceTicks: uint16(*flagDebounce),
		HoldTicks:     uint16(*flagHold),
	}, log)
	if err != nil {
		log.Fatal(err)
	}

	poller := keypad.NewPoller(kp, *flagInterval, log)
	poller.Start()
	defer func() { poller.Stop(); poller.Wait() }()

	log.Infof("scanning chip=%s rows=%v cols=%v, press keys, ^C to stop", *flagChip, rowLines, colLines)
	for range poller.Notify() {
		log.Infof("pressed=%q held=%q", kp.Pressed(), kp.Held())
	}
}

func parseLines(log *log2.Log, s string) []uint32 {
	parts := strings.Split(s, ",")
	out := make([]uint32, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			log.Fatalf("line offset '%s': %v", p, err)
		}
		out = append(out, uint32(v))
	}
	return out
}

func packLines(src []uint32) (dst [8]uint32) {
	copy(dst[:], src)
	return dst
}

func mask(n int) byte {
	if n >= 8 {
		return 0xff
	}
	return byte(1<<uint(n)) - 1
}
