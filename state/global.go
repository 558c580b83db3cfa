package state

import (
	"context"
	"fmt"
	"sync"

	"github.com/juju/errors"
	"github.com/temoto/alive/v2"

	"github.com/hollingerc/avrkit/helpers"
	"github.com/hollingerc/avrkit/log2"
)

type Global struct {
	Alive        *alive.Alive
	BuildVersion string
	Config       *Config
	Log          *log2.Log

	lk sync.Mutex

	hw hardware
}

const ContextKey = "run/state-global"

func NewContext(log *log2.Log) (context.Context, *Global) {
	if log == nil {
		panic("code error state.NewContext() log=nil")
	}
	g := &Global{
		Alive: alive.NewAlive(),
		Log:   log,
	}
	ctx := context.Background()
	ctx = context.WithValue(ctx, ContextKey, g) //nolint:staticcheck
	return ctx, g
}

func GetGlobal(ctx context.Context) *Global {
	v := ctx.Value(ContextKey)
	if v == nil {
		panic(fmt.Sprintf("context['%s'] is nil", ContextKey))
	}
	if g, ok := v.(*Global); ok {
		return g
	}
	panic(fmt.Sprintf("context['%s'] expected type *Global actual=%#v", ContextKey, v))
}

// If `Init` fails, consider `Global` is in broken state.
func (g *Global) Init(ctx context.Context, cfg *Config) error {
	g.Config = cfg

	errs := make([]error, 0, 8)

	kc := &g.Config.Hardware.Keypad
	if kc.Enable {
		if len(kc.RowLines) == 0 || len(kc.ColLines) == 0 {
			errs = append(errs, errors.NotValidf("config keypad row_lines/col_lines empty"))
		}
		if len(kc.Codes) != len(kc.RowLines)*len(kc.ColLines) {
			errs = append(errs, errors.NotValidf("config keypad codes len=%d want=%d",
				len(kc.Codes), len(kc.RowLines)*len(kc.ColLines)))
		}
	}

	pc := &g.Config.Hardware.Pushbuttons
	if pc.Enable {
		if s := pc.Nibble; s != "" && s != "lower" && s != "upper" {
			errs = append(errs, errors.NotValidf("config pushbuttons nibble=%s", s))
		}
		if len(pc.Lines) == 0 || len(pc.Lines) > 4 {
			errs = append(errs, errors.NotValidf("config pushbuttons lines=%d", len(pc.Lines)))
		}
	}

	dc := &g.Config.Hardware.Display
	if dc.Enable {
		if dc.Width <= 0 || dc.Height <= 0 || dc.Height%8 != 0 {
			errs = append(errs, errors.NotValidf("config display size=%dx%d", dc.Width, dc.Height))
		}
		if dc.Rotation < 0 || dc.Rotation > 3 {
			errs = append(errs, errors.NotValidf("config display rotation=%d", dc.Rotation))
		}
	}

	if err := helpers.FoldErrors(errs); err != nil {
		return err
	}

	// Surface device open errors at startup rather than on first use.
	if kc.Enable {
		if _, err := g.Keypad(); err != nil {
			errs = append(errs, errors.Annotate(err, "init keypad"))
		}
	}
	if pc.Enable {
		if _, err := g.Pushbuttons(); err != nil {
			errs = append(errs, errors.Annotate(err, "init pushbuttons"))
		}
	}
	if dc.Enable {
		if _, err := g.Graphics(); err != nil {
			errs = append(errs, errors.Annotate(err, "init display"))
		}
	}
	if g.Config.Hardware.Accel.Enable {
		if _, err := g.Accel(); err != nil {
			errs = append(errs, errors.Annotate(err, "init accel"))
		}
	}
	if g.Config.Hardware.Gyro.Enable {
		if _, err := g.Gyro(); err != nil {
			errs = append(errs, errors.Annotate(err, "init gyro"))
		}
	}
	if g.Config.Hardware.Mag.Enable {
		if _, err := g.Mag(); err != nil {
			errs = append(errs, errors.Annotate(err, "init mag"))
		}
	}
	if g.Config.Hardware.Uart.Enable {
		if _, err := g.Uart(); err != nil {
			errs = append(errs, errors.Annotate(err, "init uart"))
		}
	}

	return helpers.FoldErrors(errs)
}

func (g *Global) MustInit(ctx context.Context, cfg *Config) {
	err := g.Init(ctx, cfg)
	if err != nil {
		g.Log.Fatal(errors.ErrorStack(err))
	}
}

func (g *Global) Error(err error, args ...interface{}) {
	if err != nil {
		if len(args) != 0 {
			msg := args[0].(string)
			args = args[1:]
			err = errors.Annotatef(err, msg, args...)
		}
		g.Log.Errorf(errors.ErrorStack(err))
	}
}

func (g *Global) Stop() {
	g.Alive.Stop()
	g.hw.stop()
}

func recoverFatal(f helpers.Fataler) {
	if x := recover(); x != nil {
		f.Fatal(x)
	}
}
