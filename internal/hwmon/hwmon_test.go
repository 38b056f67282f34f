// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package hwmon

import (
	"fmt"
	"syscall"
	"testing"
	"time"

	"github.com/platinasystems/goes-onlp/internal/smbus/smbustest"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/spf13/afero"
)

type fakeDriver struct{}

func (fakeDriver) Name() string { return "fake" }

func (fakeDriver) IDs() []ID {
	return []ID{{"fake1", 0}, {"fake2", 1}}
}

func (fakeDriver) Probe(c *Client, id ID) (Device, error) {
	if c.Dev == nil {
		return nil, syscall.EIO
	}
	return &fakeDevice{c: c, index: id.Data}, nil
}

type fakeDevice struct {
	c       *Client
	index   int
	removed bool
}

func (d *fakeDevice) Attrs() []Attr {
	return []Attr{
		{"index", func() (string, error) {
			return fmt.Sprintln(d.index), nil
		}},
		{"reg", func() (string, error) {
			v, err := d.c.Dev.ReadByteData(0)
			return fmt.Sprintln(v), err
		}},
		{"empty", func() (string, error) { return "", nil }},
	}
}

func (d *fakeDevice) Remove() error {
	d.removed = true
	return nil
}

func reset() {
	registry.Lock()
	registry.drivers = nil
	registry.devices = nil
	registry.Unlock()
}

func TestBind(t *testing.T) {
	assert := test.Assert{TB: t}
	reset()
	defer reset()
	Register(fakeDriver{})

	m := smbustest.New()
	b, err := NewDevice("fake2", 9, 0x58, m)
	assert.Nil(err)
	assert.Equal(b.String(), "9-0058")
	assert.Equal(b.Driver.Name(), "fake")
	a, found := b.Attr("index")
	assert.True(found)
	s, err := a.Show()
	assert.Nil(err)
	assert.Equal(s, "1\n")

	_, err = NewDevice("fake1", 9, 0x58, m)
	assert.Error(err, ErrExists)
	_, err = NewDevice("nosuch", 9, 0x59, m)
	assert.Error(err, ErrNoDriver)
	_, err = NewDevice("fake1", 10, 0x59, nil)
	assert.Error(err, syscall.EIO)
	assert.True(IsShowError(err))

	_, err = NewDevice("fake1", 1, 0x5e, m)
	assert.Nil(err)
	bs := Devices()
	assert.Int(len(bs), 2)
	assert.Equal(bs[0].String(), "1-005e")

	d := b.Device.(*fakeDevice)
	assert.Nil(DeleteDevice(9, 0x58))
	assert.True(d.removed)
	assert.Error(DeleteDevice(9, 0x58), ErrNotFound)
	assert.Int(len(Devices()), 1)
}

func TestCache(t *testing.T) {
	assert := test.Assert{TB: t}
	now := time.Unix(1000, 0)
	c := Cache{
		Interval: PsuInterval,
		Now:      func() time.Time { return now },
	}
	updates := 0
	fail := false
	update := func() error {
		updates++
		if fail {
			return syscall.EIO
		}
		return nil
	}
	show := func(valid bool) (string, error) {
		if !valid {
			return "0\n", nil
		}
		return "1\n", nil
	}
	s, _ := c.Show(update, show)
	assert.Equal(s, "1\n")
	assert.Int(updates, 1)

	now = now.Add(PsuInterval)
	s, _ = c.Show(update, show)
	assert.Equal(s, "1\n")
	assert.Int(updates, 1)

	now = now.Add(time.Millisecond)
	fail = true
	s, _ = c.Show(update, show)
	assert.Equal(s, "0\n")
	assert.Int(updates, 2)

	// an invalid cache is always updated
	fail = false
	s, _ = c.Show(update, show)
	assert.Equal(s, "1\n")
	assert.Int(updates, 3)

	c.Invalidate()
	c.Show(update, show)
	assert.Int(updates, 4)
}

func TestExport(t *testing.T) {
	assert := test.Assert{TB: t}
	reset()
	defer reset()
	Register(fakeDriver{})

	m := smbustest.New()
	m.Regs[0] = 7
	_, err := NewDevice("fake1", 9, 0x58, m)
	assert.Nil(err)

	fs := afero.NewMemMapFs()
	assert.Nil(Export(fs, "/run/goes/hwmon"))
	for fn, expect := range map[string]string{
		"/run/goes/hwmon/9-0058/name":  "fake1\n",
		"/run/goes/hwmon/9-0058/index": "0\n",
		"/run/goes/hwmon/9-0058/reg":   "7\n",
		"/run/goes/hwmon/9-0058/empty": "",
	} {
		b, err := afero.ReadFile(fs, fn)
		assert.Nil(err)
		assert.Equal(string(b), expect)
	}

	m.Fail[0] = true
	err = Export(fs, "/run/goes/hwmon")
	assert.Error(err, syscall.EIO)
	assert.True(IsShowError(err))
	_, err = fs.Stat("/run/goes/hwmon/9-0058/reg")
	assert.True(err != nil)
	_, err = fs.Stat("/run/goes/hwmon/9-0058/index")
	assert.Nil(err)

	assert.Nil(DeleteDevice(9, 0x58))
	assert.Nil(Unexport(fs, "/run/goes/hwmon", 9, 0x58))
	_, err = fs.Stat("/run/goes/hwmon/9-0058")
	assert.True(err != nil)
}

func TestExportFunc(t *testing.T) {
	assert := test.Assert{TB: t}
	reset()
	defer reset()
	Register(fakeDriver{})

	m := smbustest.New()
	m.Regs[0] = 7
	_, err := NewDevice("fake1", 9, 0x58, m)
	assert.Nil(err)

	shown := make(map[string]string)
	assert.Nil(ExportFunc(afero.NewMemMapFs(), "/run/goes/hwmon",
		func(k, v string) { shown[k] = v }))
	assert.Int(len(shown), 3)
	assert.Equal(shown["9-0058.reg"], "7")
	assert.Equal(shown["9-0058.index"], "0")
}
