// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package as7315_27xb

import (
	"testing"

	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/cpld"
	"github.com/platinasystems/goes-onlp/internal/hwmon"
	"github.com/platinasystems/goes-onlp/internal/smbus/smbustest"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/spf13/afero"
)

const hwmonDir = "/run/goes/hwmon"

func memFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	save := sysfs.Fs
	sysfs.Fs = fs
	t.Cleanup(func() { sysfs.Fs = save })
	return fs
}

func newPlatform(t *testing.T) *Platform {
	p, err := onlp.New(Name)
	if err != nil {
		t.Fatal(err)
	}
	c := config.Default()
	c.Hwmon = hwmonDir
	if err = p.(onlp.Configurer).Configure(c); err != nil {
		t.Fatal(err)
	}
	return p.(*Platform)
}

func TestPsuInfo(t *testing.T) {
	assert := test.Assert{TB: t}
	fs := memFs(t)
	for fn, s := range map[string]string{
		"9-0050/name":            "as7315_27xb_psu1\n",
		"9-0050/psu_present":     "1\n",
		"9-0050/psu_power_good":  "1\n",
		"9-0050/psu_model_name":  "um400d01-01G\n",
		"10-0051/name":           "as7315_27xb_psu2\n",
		"10-0051/psu_present":    "1\n",
		"10-0051/psu_power_good": "0\n",
	} {
		assert.Nil(afero.WriteFile(fs, hwmonDir+"/"+fn, []byte(s), 0644))
	}
	p := newPlatform(t)
	assert.Nil(p.Init())

	pi, err := p.PsuInfo(onlp.PsuOID(1))
	assert.Nil(err)
	assert.Equal(pi.Description, "PSU-1")
	assert.Equal(pi.Status.String(), "powered_on")
	assert.Equal(pi.Caps.Input(), "DC48")
	assert.Equal(pi.Model, "um400d01-01G")
	assert.Equal(pi.Serial, "")

	pi, err = p.PsuInfo(onlp.PsuOID(2))
	assert.Nil(err)
	assert.True(pi.Status&onlp.PsuStatusUnplugged != 0)
	assert.True(pi.Status&onlp.PsuStatusFailed != 0)
	assert.Equal(pi.Status.String(), "powered_off")

	_, err = p.PsuInfo(onlp.PsuOID(3))
	assert.Error(err, onlp.ErrInvalid)
	_, err = p.PsuInfo(onlp.FanOID(1))
	assert.Error(err, onlp.ErrInvalid)
}

func TestPsuNotBound(t *testing.T) {
	assert := test.Assert{TB: t}
	fs := memFs(t)
	assert.Nil(fs.MkdirAll(hwmonDir, 0755))
	p := newPlatform(t)
	assert.Nil(p.Init())
	pi, err := p.PsuInfo(onlp.PsuOID(1))
	assert.Nil(err)
	assert.Equal(pi.Status.String(), "not_installed")
}

func TestExported(t *testing.T) {
	assert := test.Assert{TB: t}
	fs := memFs(t)
	cpld.Add(StatusAddr, smbustest.New().Load(StatusReg, []byte{psu1Only}))
	defer cpld.Remove(StatusAddr)
	_, err := hwmon.NewDevice("as7315_27xb_psu1", 9, 0x50, ym2401())
	assert.Nil(err)
	defer hwmon.DeleteDevice(9, 0x50)
	assert.Nil(hwmon.Export(fs, hwmonDir))

	pi, err := newPlatform(t).PsuInfo(onlp.PsuOID(1))
	assert.Nil(err)
	assert.Equal(pi.Status.String(), "powered_on")
	assert.Equal(pi.Caps.Input(), "AC")
	assert.Equal(pi.Model, "YM-2401JCR")
	assert.Equal(pi.Serial, ymSerial)
}
