// Bring-up tool: clock a byte pattern out of an SPI port and print the
// readback. With MOSI jumpered to MISO the output echoes the pattern,
// a quick wiring check before attaching a real slave.
package main

import (
	"encoding/hex"
	"flag"
	"time"

	"periph.io/x/periph/conn/physic"
	periphspi "periph.io/x/periph/conn/spi"

	"github.com/hollingerc/avrkit/hardware/spi"
	"github.com/hollingerc/avrkit/log2"
)

func main() {
	flagBus := flag.String("bus", "/dev/spidev0.0", "spireg port name")
	flagSpeedKhz := flag.Int("speed", 500, "clock, kHz")
	flagMode := flag.Int("mode", 0, "CPOL/CPHA 0..3")
	flagPattern := flag.String("pattern", "a55a0ff0", "hex bytes to send")
	flagInterval := flag.Duration("interval", time.Second, "repeat interval, 0 for one shot")
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	w, err := hex.DecodeString(*flagPattern)
	if err != nil {
		log.Fatalf("pattern: %v", err)
	}

	m, err := spi.Open(spi.Config{
		Bus:   *flagBus,
		Speed: physic.Frequency(*flagSpeedKhz) * physic.KiloHertz,
		Mode:  periphspi.Mode(*flagMode),
	}, log)
	if err != nil {
		log.Fatal(err)
	}
	defer m.Close()

	r := make([]byte, len(w))
	for {
		if err = m.Tx(w, r); err != nil {
			log.Fatal(err)
		}
		log.Infof("sent=%x recv=%x", w, r)
		if *flagInterval <= 0 {
			return
		}
		time.Sleep(*flagInterval)
	}
}
