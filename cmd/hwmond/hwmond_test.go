// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package hwmond

import (
	"fmt"
	"strings"
	"testing"

	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/hwmon"
	"github.com/platinasystems/goes-onlp/internal/smbus"
	"github.com/platinasystems/goes-onlp/internal/smbus/smbustest"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/spf13/afero"
)

const site = `
hwmon: /run/goes/hwmon
cplds:
  - {bus: 0, addr: 0x64}
devices:
  - {name: as7315_27xb_psu1, bus: 9, addr: 0x50, byteaccess: true}
  - {name: as7315_27xb_psu2, bus: 10, addr: 0x51, byteaccess: true}
`

func TestBindExport(t *testing.T) {
	assert := test.Assert{TB: t}

	fs := afero.NewMemMapFs()
	saveFs, saveClient := sysfs.Fs, NewClient
	defer func() { sysfs.Fs, NewClient = saveFs, saveClient }()
	sysfs.Fs = fs

	// PSU1 present and power good, PSU2 absent.
	status := smbustest.New().Load(0x2, []byte{0x12})
	psu1 := smbustest.New().
		Load(0x20, []byte("YM-2401J\x00CR")).
		Load(0x35, []byte("SA070U461829000312X"))
	NewClient = func(bus, addr int, byteAccess bool) smbus.Device {
		switch addr {
		case 0x64:
			return status
		case 0x50:
			return psu1
		}
		return smbustest.New()
	}

	cfg, err := config.Parse([]byte(site))
	assert.Nil(err)

	c := new(Command)
	assert.Nil(c.bind(cfg))
	assert.Int(len(hwmon.Devices()), 2)
	assert.Nil(c.export())
	for fn, expect := range map[string]string{
		"9-0050/name":            "as7315_27xb_psu1\n",
		"9-0050/psu_present":     "1\n",
		"9-0050/psu_power_good":  "1\n",
		"9-0050/psu_model_name":  "YM-2401JCR\n",
		"9-0050/psu_serial":      "SA070U461829000312X\n",
		"10-0051/psu_index":      "1\n",
		"10-0051/psu_present":    "0\n",
		"10-0051/psu_power_good": "0\n",
		"10-0051/psu_model_name": "",
	} {
		b, err := afero.ReadFile(fs, "/run/goes/hwmon/"+fn)
		assert.Nil(err)
		assert.Equal(string(b), expect)
	}

	// a failed read is logged, not fatal
	psu1.Fail[0x20] = true
	assert.Nil(c.export())
	assert.True(len(c.last) > 0)
	_, err = fs.Stat("/run/goes/hwmon/9-0050/psu_model_name")
	assert.True(err != nil)

	c.unbind()
	assert.Int(len(hwmon.Devices()), 0)
	_, err = fs.Stat("/run/goes/hwmon/9-0050")
	assert.True(err != nil)
}

type lines []string

func (l *lines) Print(a ...interface{}) (int, error) {
	s := fmt.Sprint(a...)
	*l = append(*l, s)
	return len(s), nil
}

func TestPublish(t *testing.T) {
	assert := test.Assert{TB: t}
	saveFs, saveClient := sysfs.Fs, NewClient
	defer func() { sysfs.Fs, NewClient = saveFs, saveClient }()
	sysfs.Fs = afero.NewMemMapFs()

	status := smbustest.New().Load(0x2, []byte{0x12})
	psu1 := smbustest.New().Load(0x50, []byte("um400d01G"))
	NewClient = func(bus, addr int, byteAccess bool) smbus.Device {
		if addr == 0x64 {
			return status
		}
		return psu1
	}
	cfg := config.Default()
	cfg.Cplds = []config.Cpld{{Bus: 0, Addr: 0x64}}
	cfg.Devices = []config.Device{
		{Name: "as7315_27xb_psu1", Bus: 9, Addr: 0x50},
	}
	pub := new(lines)
	c := &Command{pub: pub}
	assert.Nil(c.bind(cfg))
	defer c.unbind()

	assert.Nil(c.export())
	assert.Equal(strings.Join(*pub, "\n"), `hwmon: 9-0050.psu_index: 0
hwmon: 9-0050.psu_present: 1
hwmon: 9-0050.psu_model_name: um400d01G
hwmon: 9-0050.psu_power_good: 1`)

	*pub = nil
	assert.Nil(c.export())
	assert.Int(len(*pub), 0)

	psu1.Fail[0x50] = true
	assert.Nil(c.export())
	assert.Equal(strings.Join(*pub, "\n"),
		"hwmon: delete: 9-0050.psu_model_name")
}

func TestBindUnknown(t *testing.T) {
	assert := test.Assert{TB: t}
	saveClient := NewClient
	defer func() { NewClient = saveClient }()
	NewClient = func(int, int, bool) smbus.Device { return smbustest.New() }

	cfg := config.Default()
	cfg.Devices = []config.Device{{Name: "nosuch", Bus: 1, Addr: 0x50}}
	c := new(Command)
	assert.Error(c.bind(cfg), hwmon.ErrNoDriver)
	c.unbind()
}
