package state

import (
	"context"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/temoto/alive/v2"

	"github.com/hollingerc/avrkit/log2"
)

func TestReadConfig(t *testing.T) {
	t.Parallel()

	type Case struct {
		name      string
		input     string
		check     func(testing.TB, context.Context)
		expectErr string
	}
	cases := []Case{
		{"empty", "", nil, ""},

		{"keypad",
			`hardware { keypad {
	chip = "gpiochip0"
	row_lines = [4, 5, 6, 7]
	col_lines = [8, 9, 10]
	codes = "123456789*0#"
	debounce_ticks = 2
	hold_ticks = 50
	scan_interval_ms = 10
} }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				kc := g.Config.Hardware.Keypad
				assert.Equal(t, "gpiochip0", kc.Chip)
				assert.Equal(t, []int{4, 5, 6, 7}, kc.RowLines)
				assert.Equal(t, []int{8, 9, 10}, kc.ColLines)
				assert.Equal(t, "123456789*0#", kc.Codes)
				assert.Equal(t, 2, kc.DebounceTicks)
				assert.Equal(t, 50, kc.HoldTicks)
			},
			"",
		},

		{"display",
			`hardware { display {
	width = 128
	height = 64
	rotation = 1
	codepage = "windows-1251"
} }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				dc := g.Config.Hardware.Display
				assert.Equal(t, 128, dc.Width)
				assert.Equal(t, 64, dc.Height)
				assert.Equal(t, 1, dc.Rotation)
				assert.Equal(t, "windows-1251", dc.Codepage)
			},
			"",
		},

		{"include-normalize", `
hardware { i2c { bus = 1 } }
include "./empty" {}`,
			nil, ""},

		{"include-optional", `
include "uart-baud-19200" {}
include "non-exist" { optional = true }`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, 19200, g.Config.Hardware.Uart.Baud)
			}, ""},

		{"include-overwrites", `
hardware { uart { baud = 9600 } }
include "uart-baud-19200" {}`,
			func(t testing.TB, ctx context.Context) {
				g := GetGlobal(ctx)
				assert.Equal(t, 19200, g.Config.Hardware.Uart.Baud)
			}, ""},

		{"error-keypad-codes", `hardware { keypad {
	enable = true
	row_lines = [4, 5]
	col_lines = [8, 9]
	codes = "123"
} }`,
			nil, "config keypad codes len=3 want=4"},

		{"error-pushbuttons-nibble", `hardware { pushbuttons {
	enable = true
	lines = [1, 2]
	nibble = "middle"
} }`,
			nil, "config pushbuttons nibble=middle"},

		{"error-display-height", `hardware { display {
	enable = true
	width = 128
	height = 33
} }`,
			nil, "config display size=128x33"},

		{"error-syntax", `hello`, nil, "key 'hello' expected start of object"},
		{"error-include-loop", `include "include-loop" {}`, nil, "config include loop: from=include-loop include=include-loop"},
	}
	mkCheck := func(c Case) func(*testing.T) {
		return func(t *testing.T) {
			// log := log2.NewStderr(log2.LDebug) // helps with panics
			log := log2.NewTest(t, log2.LDebug)

			g := &Global{
				Alive: alive.NewAlive(),
				Log:   log,
			}
			ctx := context.Background()
			ctx = context.WithValue(ctx, ContextKey, g) //nolint:staticcheck

			fs := NewMockFullReader(map[string]string{
				"test-inline":     c.input,
				"empty":           "",
				"uart-baud-19200": "hardware{uart{baud=19200}}",
				"error-syntax":    "hello",
				"include-loop":    `include "include-loop" {}`,
			})
			cfg, err := ReadConfig(log, fs, "test-inline")
			if err == nil {
				err = g.Init(ctx, cfg)
			}
			if c.expectErr == "" {
				if err != nil {
					t.Fatalf("error expected=nil actual='%v'", errors.ErrorStack(err))
				}
				if c.check != nil {
					c.check(t, ctx)
				}
			} else {
				if !strings.Contains(err.Error(), c.expectErr) {
					t.Fatalf("error expected='%s' actual='%v'", c.expectErr, err)
				}
			}
		}
	}
	for _, c := range cases {
		t.Run(c.name, mkCheck(c))
	}
}

func TestFunctionalBundled(t *testing.T) {
	// not Parallel
	t.Logf("this test needs OS open|read|stat access to file `../avrkit.hcl`")

	log := log2.NewTest(t, log2.LDebug)
	MustReadConfig(log, NewOsFullReader(), "../avrkit.hcl")
}
