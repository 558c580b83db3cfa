package log2

import (
	"bytes"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		level  Level
		fun    func(l *Log)
		expect string
	}{
		{"debug-enabled", LDebug, func(l *Log) { l.Debugf("raw=%02x", 0x5a) }, "debug: raw=5a\n"},
		{"debug-filtered", LInfo, func(l *Log) { l.Debugf("raw=%02x", 0x5a) }, ""},
		{"info", LInfo, func(l *Log) { l.Infof("state=%s", "idle") }, "state=idle\n"},
		{"info-filtered", LError, func(l *Log) { l.Info("state") }, ""},
		{"error", LError, func(l *Log) { l.Errorf("bus fault") }, "error: bus fault\n"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name+"/nil", func(t *testing.T) {
			c.fun(nil) // must not panic
		})
		t.Run(c.name, func(t *testing.T) {
			buf := bytes.NewBuffer(nil)
			l := NewWriter(buf, c.level)
			l.SetFlags(0)
			c.fun(l)
			assert.Equal(t, c.expect, buf.String())
		})
	}
}

func TestErrorFunc(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LAll)
	l.SetFlags(0)
	ch := make(chan error, 2)
	l.SetErrorFunc(func(e error) { ch <- e })

	exact := fmt.Errorf("one particular issue")
	l.Error(exact)
	l.Errorf("trouble var=%.1f", 3.4)
	close(ch)

	assert.Equal(t, exact, <-ch)
	assert.Equal(t, "trouble var=3.4", (<-ch).Error())
	assert.Equal(t, "error: one particular issue\nerror: trouble var=3.4\n", buf.String())
}

func TestClone(t *testing.T) {
	t.Parallel()

	buf := bytes.NewBuffer(nil)
	l := NewWriter(buf, LError)
	l.SetFlags(log.Lshortfile)
	l2 := l.Clone(LDebug)
	assert.True(t, l2.Enabled(LDebug))
	assert.False(t, l.Enabled(LDebug))
	assert.Nil(t, (*Log)(nil).Clone(LAll))
}
