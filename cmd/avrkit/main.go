// Daemon wiring the configured peripherals together: keypad scan loop
// feeds key activity to the display, sensors are polled on demand.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/daemon"
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/hardware/keypad"
	"github.com/hollingerc/avrkit/log2"
	"github.com/hollingerc/avrkit/state"
)

var BuildVersion string = "unknown" // set by ldflags -X

func main() {
	flagConfig := flag.String("config", "avrkit.hcl", "")
	flagVersion := flag.Bool("version", false, "print build version")
	flag.Parse()
	if *flagVersion {
		fmt.Printf("avrkit %s\n", BuildVersion)
		return
	}

	logger := log2.NewStderr(log2.LDebug)
	if sdnotify("start") {
		// under systemd assume journal logging, remove timestamp
		logger.SetFlags(log2.LServiceFlags)
	} else {
		logger.SetFlags(log2.LInteractiveFlags)
	}
	logger.Debugf("hello")

	ctx, g := state.NewContext(logger)
	g.BuildVersion = BuildVersion

	config := state.MustReadConfig(logger, state.NewOsFullReader(), *flagConfig)
	g.MustInit(ctx, config)
	logger.Debugf("config=%+v", *config)

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigch
		g.Alive.Stop()
	}()

	if config.Hardware.Keypad.Enable {
		if err := runKeypad(g); err != nil {
			logger.Fatal(errors.ErrorStack(err))
		}
	}
	if config.Hardware.Pushbuttons.Enable {
		if err := runPushbuttons(g); err != nil {
			logger.Fatal(errors.ErrorStack(err))
		}
	}

	sdnotify(daemon.SdNotifyReady)
	logger.Infof("init complete, running")

	<-g.Alive.StopChan()
	sdnotify(daemon.SdNotifyStopping)
	g.Stop()
	g.Alive.Wait()
}

// runKeypad starts the matrix scan loop and a consumer rendering key
// activity on the display when one is configured.
func runKeypad(g *state.Global) error {
	kp, err := g.Keypad()
	if err != nil {
		return errors.Trace(err)
	}
	poller, err := g.KeypadPoller()
	if err != nil {
		return errors.Trace(err)
	}
	poller.Start()

	if !g.Alive.Add(1) {
		return errors.Errorf("keypad consumer: already stopping")
	}
	go func() {
		defer g.Alive.Done()
		stopch := g.Alive.StopChan()
		for {
			select {
			case <-poller.Notify():
				showKeys(g, kp)
			case <-stopch:
				return
			}
		}
	}()
	return nil
}

func runPushbuttons(g *state.Global) error {
	pb, err := g.Pushbuttons()
	if err != nil {
		return errors.Trace(err)
	}
	poller, err := g.PushbuttonPoller()
	if err != nil {
		return errors.Trace(err)
	}
	poller.Start()

	if !g.Alive.Add(1) {
		return errors.Errorf("pushbutton consumer: already stopping")
	}
	go func() {
		defer g.Alive.Done()
		stopch := g.Alive.StopChan()
		for {
			select {
			case <-poller.Notify():
				flags := pb.Flags()
				pb.Clear()
				g.Log.Infof("pushbuttons flags=%02x", flags)
			case <-stopch:
				return
			}
		}
	}()
	return nil
}

func showKeys(g *state.Global, kp *keypad.MatrixKeypad) {
	pressed := kp.Pressed()
	held := kp.Held()
	g.Log.Infof("keypad pressed=%q held=%q", pressed, held)

	if !g.Config.Hardware.Display.Enable {
		return
	}
	gfx, err := g.Graphics()
	if err != nil {
		g.Error(err, "keypad display")
		return
	}
	gfx.Clear()
	gfx.SetCursor(0, 0)
	gfx.PutString("key: " + string(pressed))
	if len(held) > 0 {
		gfx.SetCursor(0, 10)
		gfx.PutString("held: " + string(held))
	}
	if err := gfx.Flush(); err != nil {
		g.Error(err, "keypad display flush")
	}
}

func sdnotify(s string) bool {
	ok, err := daemon.SdNotify(false, s)
	if err != nil {
		log.Fatal("sdnotify: ", errors.ErrorStack(err))
	}
	return ok
}
