package state

import (
	"path/filepath"
	"sync"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"github.com/hollingerc/avrkit/helpers"
	"github.com/hollingerc/avrkit/log2"
)

type Config struct {
	// includeSeen contains absolute paths to prevent include loops
	includeSeen map[string]struct{}
	// only used for Unmarshal, do not access
	XXX_Include []ConfigSource `hcl:"include"`

	Hardware struct {
		Keypad struct {
			Enable bool   `hcl:"enable"`
			Chip   string `hcl:"chip"`
			// gpiochip line offsets, row-read lines then column-drive
			// lines; matrix dimensions follow the slice lengths
			RowLines []int `hcl:"row_lines"`
			ColLines []int `hcl:"col_lines"`
			// Codes assigns one byte per key, row-major
			Codes          string `hcl:"codes"`
			DebounceTicks  int    `hcl:"debounce_ticks"`
			HoldTicks      int    `hcl:"hold_ticks"`
			ScanIntervalMs int    `hcl:"scan_interval_ms"`
		} `hcl:"keypad"`

		Pushbuttons struct {
			Enable bool     `hcl:"enable"`
			Chip   string   `hcl:"chip"`
			Lines  []int `hcl:"lines"`
			// Nibble selects which half of the port the buttons share
			// with the other peripheral: "lower" or "upper"
			Nibble         string `hcl:"nibble"`
			HoldTicks      int    `hcl:"hold_ticks"`
			ScanIntervalMs int    `hcl:"scan_interval_ms"`
		} `hcl:"pushbuttons"`

		Display struct {
			Enable   bool   `hcl:"enable"`
			Width    int    `hcl:"width"`
			Height   int    `hcl:"height"`
			Rotation int    `hcl:"rotation"`
			TextSize int    `hcl:"text_size"`
			Codepage string `hcl:"codepage"`
			// Fbdev mirrors the frame on a Linux framebuffer device
			// when set, e.g. "/dev/fb1"
			Fbdev string `hcl:"fbdev"`
		} `hcl:"display"`

		I2C struct {
			Bus int `hcl:"bus"`
		} `hcl:"i2c"`

		Accel struct {
			Enable  bool `hcl:"enable"`
			Address int  `hcl:"address"`
		} `hcl:"accel"`
		Gyro struct {
			Enable  bool `hcl:"enable"`
			Address int  `hcl:"address"`
		} `hcl:"gyro"`
		Mag struct {
			Enable  bool `hcl:"enable"`
			Address int  `hcl:"address"`
		} `hcl:"mag"`

		Uart struct {
			Enable bool   `hcl:"enable"`
			Device string `hcl:"device"`
			Baud   int    `hcl:"baud"`
			TxRing int    `hcl:"tx_ring"`
		} `hcl:"uart"`

		Spi struct {
			Bus      string `hcl:"bus"`
			SpeedKhz int    `hcl:"speed_khz"`
			Mode     int    `hcl:"mode"`
		} `hcl:"spi"`
	} `hcl:"hardware"`

	_copy_guard sync.Mutex //nolint:unused
}

type ConfigSource struct {
	Name     string `hcl:"name,key"`
	Optional bool   `hcl:"optional"`
}

func (c *Config) read(log *log2.Log, fs FullReader, source ConfigSource, errs *[]error) {
	norm := fs.Normalize(source.Name)
	if _, ok := c.includeSeen[norm]; ok {
		log.Fatalf("config duplicate source=%s", source.Name)
	} else {
		log.Debugf("config reading source='%s' path=%s", source.Name, norm)
	}
	c.includeSeen[source.Name] = struct{}{}
	c.includeSeen[norm] = struct{}{}

	bs, err := fs.ReadAll(norm)
	if bs == nil && err == nil {
		if !source.Optional {
			err = errors.NotFoundf("config required name=%s path=%s", source.Name, norm)
			*errs = append(*errs, err)
			return
		}
	}
	if err != nil {
		*errs = append(*errs, errors.Annotatef(err, "config source=%s", source.Name))
		return
	}

	err = hcl.Unmarshal(bs, c)
	if err != nil {
		err = errors.Annotatef(err, "config unmarshal source=%s content='%s'", source.Name, string(bs))
		*errs = append(*errs, err)
		return
	}

	var includes []ConfigSource
	includes, c.XXX_Include = c.XXX_Include, nil
	for _, include := range includes {
		includeNorm := fs.Normalize(include.Name)
		if _, ok := c.includeSeen[includeNorm]; ok {
			err = errors.Errorf("config include loop: from=%s include=%s", source.Name, include.Name)
			*errs = append(*errs, err)
			continue
		}
		c.read(log, fs, include, errs)
	}
}

func ReadConfig(log *log2.Log, fs FullReader, names ...string) (*Config, error) {
	if len(names) == 0 {
		log.Fatal("code error [Must]ReadConfig() without names")
	}

	if osfs, ok := fs.(*OsFullReader); ok {
		dir, name := filepath.Split(names[0])
		osfs.SetBase(dir)
		names[0] = name
	}
	c := &Config{
		includeSeen: make(map[string]struct{}),
	}
	errs := make([]error, 0, 8)
	for _, name := range names {
		c.read(log, fs, ConfigSource{Name: name}, &errs)
	}
	return c, helpers.FoldErrors(errs)
}

func MustReadConfig(log *log2.Log, fs FullReader, names ...string) *Config {
	c, err := ReadConfig(log, fs, names...)
	if err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
	return c
}
