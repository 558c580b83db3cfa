// Bring-up tool: dumb terminal on a serial port. Stdin lines go out
// through the transmit ring, received bytes stream to stdout.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/hollingerc/avrkit/hardware/uart"
	"github.com/hollingerc/avrkit/log2"
)

func main() {
	flagDevice := flag.String("device", "/dev/ttyAMA0", "tty device")
	flagBaud := flag.Int("baud", 9600, "baud rate")
	flag.Parse()

	log := log2.NewStderr(log2.LDebug)
	log.SetFlags(log2.LInteractiveFlags)

	u, err := uart.Open(uart.Config{Device: *flagDevice, Baud: *flagBaud}, log)
	if err != nil {
		log.Fatal(err)
	}
	defer u.Close()

	go func() {
		for {
			b, err := u.GetChar()
			if err != nil {
				log.Fatalf("rx: %v", err)
			}
			fmt.Printf("%c", b)
		}
	}()

	scan := bufio.NewScanner(os.Stdin)
	for scan.Scan() {
		line := scan.Text() + "\r\n"
		if !u.PutString(line) {
			log.Errorf("tx ring full, %d bytes pending", u.TxPending())
		}
		if err := u.Err(); err != nil {
			log.Fatalf("tx: %v", err)
		}
	}
}
