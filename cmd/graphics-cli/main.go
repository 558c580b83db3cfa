// Interactive playground for the rasterizer: draw on an in-memory
// frame from a prompt, render it as console art. Pipe a script via
// stdin for quick regression checks.
package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	prompt "github.com/c-bata/go-prompt"
	"github.com/skip2/go-qrcode"

	"github.com/hollingerc/avrkit/hardware/display/graphics"
	"github.com/hollingerc/avrkit/helpers/cli"
	"github.com/hollingerc/avrkit/log2"
)

var commands = []prompt.Suggest{
	{Text: "pixel", Description: "pixel <x> <y>"},
	{Text: "line", Description: "line <x0> <y0> <x1> <y1>"},
	{Text: "circle", Description: "circle <x> <y> <r>"},
	{Text: "fcircle", Description: "fcircle <x> <y> <r>"},
	{Text: "rect", Description: "rect <x0> <y0> <x1> <y1>"},
	{Text: "frect", Description: "frect <x0> <y0> <x1> <y1>"},
	{Text: "text", Description: "text <x> <y> <string...>"},
	{Text: "qr", Description: "qr <string...>"},
	{Text: "rotate", Description: "rotate <0|1|2|3>"},
	{Text: "size", Description: "size <1..4> text scale"},
	{Text: "clear", Description: "wipe the frame"},
	{Text: "show", Description: "print the frame"},
}

func main() {
	flagWidth := flag.Int("width", 128, "frame width")
	flagHeight := flag.Int("height", 64, "frame height, multiple of 8")
	flag.Parse()

	log := log2.NewStderr(log2.LInfo)
	log.SetFlags(log2.LInteractiveFlags)

	g, err := graphics.New(*flagWidth, *flagHeight, log)
	if err != nil {
		log.Fatal(err)
	}

	cli.MainLoop("graphics-cli", func(line string) {
		if line == "" {
			return
		}
		if err := execLine(g, line); err != nil {
			log.Errorf("%s: %v", line, err)
		}
	}, func(d prompt.Document) []prompt.Suggest {
		return prompt.FilterHasPrefix(commands, d.GetWordBeforeCursor(), true)
	})
}

func execLine(g *graphics.Graphics, line string) error {
	words := strings.Fields(line)
	cmd, args := words[0], words[1:]

	ints := func(n int) ([]int, error) {
		if len(args) < n {
			return nil, fmt.Errorf("want %d args", n)
		}
		out := make([]int, n)
		for i := 0; i < n; i++ {
			v, err := strconv.Atoi(args[i])
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	switch cmd {
	case "pixel":
		v, err := ints(2)
		if err != nil {
			return err
		}
		g.SetPixel(v[0], v[1], graphics.White)
	case "line":
		v, err := ints(4)
		if err != nil {
			return err
		}
		g.Line(v[0], v[1], v[2], v[3])
	case "circle":
		v, err := ints(3)
		if err != nil {
			return err
		}
		g.Circle(v[0], v[1], v[2])
	case "fcircle":
		v, err := ints(3)
		if err != nil {
			return err
		}
		g.FilledCircle(v[0], v[1], v[2])
	case "rect":
		v, err := ints(4)
		if err != nil {
			return err
		}
		g.Rectangle(v[0], v[1], v[2], v[3])
	case "frect":
		v, err := ints(4)
		if err != nil {
			return err
		}
		g.FilledRectangle(v[0], v[1], v[2], v[3])
	case "text":
		v, err := ints(2)
		if err != nil {
			return err
		}
		g.SetCursor(v[0], v[1])
		g.PutString(strings.Join(args[2:], " "))
	case "qr":
		return g.QR(strings.Join(args, " "), true, qrcode.Medium)
	case "rotate":
		v, err := ints(1)
		if err != nil {
			return err
		}
		g.SetRotation(graphics.Rotation(v[0]))
	case "size":
		v, err := ints(1)
		if err != nil {
			return err
		}
		g.SetTextSize(v[0])
	case "clear":
		g.Clear()
	case "show":
		fmt.Print(g.String())
	default:
		return fmt.Errorf("unknown command, try: pixel line circle fcircle rect frect text qr rotate size clear show")
	}
	return nil
}
