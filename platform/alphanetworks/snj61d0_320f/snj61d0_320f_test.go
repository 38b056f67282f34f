// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package snj61d0_320f

import (
	"testing"

	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/spf13/afero"
)

func mockSys(t *testing.T, files map[string]string) afero.Fs {
	fs := afero.NewMemMapFs()
	for fn, s := range files {
		if err := afero.WriteFile(fs, fn, []byte(s), 0644); err != nil {
			t.Fatal(err)
		}
	}
	save := sysfs.Fs
	sysfs.Fs = fs
	t.Cleanup(func() { sysfs.Fs = save })
	return fs
}

func TestBits(t *testing.T) {
	assert := test.Assert{TB: t}
	assert.True(TestBit32(0x1234, 2))
	assert.False(TestBit32(0x1234, 1))
	assert.False(TestBit8(0xff, 8))
	assert.True(SetBit32(0x0100, 6) == 0x0140)
	assert.True(ResetBit32(0x0100, 8) == 0)
	assert.True(SetBit8(0x01, 9) == 0x01)
	assert.True(ResetBit8(0xff, 12) == 0xff)
	assert.True(ResetBit8(0xff, 7) == 0x7f)
	assert.True(SetBit16(0, 15) == 0x8000)
	assert.True(ResetBit16(0xffff, 16) == 0xffff)
	assert.True(SetBit64(0, 63) == 1<<63)
	assert.True(SetBit64(1, 64) == 1)
	assert.True(TestBit64(1<<40, 40))
	assert.True(ResetBit64(1<<40, 40) == 0)
}

func TestPorts(t *testing.T) {
	assert := test.Assert{TB: t}
	assert.True(IsQsfpPort(0))
	assert.True(IsQsfpPort(31))
	assert.False(IsQsfpPort(32))
	assert.True(IsSfpPort(32))
	assert.True(IsSfp1Port(33))
	assert.False(IsSfpPort(34))
	assert.Int(len(new(Platform).SfpBitmap()), NumSfpPort)
	assert.Equal(SfpControlTxDisable.String(), "TX_DISABLE")
	assert.Equal(SfpControl(99).String(), "UNKNOWN")
	assert.Int(ChassisThermalCount, 4)
	assert.Int(ChassisFanCount, 6)
}

func TestPsu(t *testing.T) {
	assert := test.Assert{TB: t}
	mockSys(t, map[string]string{
		FanNode("psu1_present"):            "1\n",
		FanNode("psu1_power_good"):         "1\n",
		FanNode("psu2_present"):            "0\n",
		PmbusNode(1, "psu_mfr_model"):      "YESM1300AM-2R01P10\n",
		PmbusNode(1, "psu_mfr_serial"):     "SN0123456789\n",
		PmbusNode(1, "psu_v_out"):          "12100\n",
		PmbusNode(1, "psu_p_out"):          "210000\n",
		PmbusNode(1, "psu_fan1_speed_rpm"): "7200\n",
		PmbusNode(1, "psu_temp1_input"):    "33000\n",
	})
	typ, model, err := PsuTypeGet(1)
	assert.Nil(err)
	assert.Equal(typ.String(), "AC_B2F")
	assert.Equal(model, "YESM1300AM-2R01P10")

	p := new(Platform)
	pi, err := p.PsuInfo(onlp.PsuOID(1))
	assert.Nil(err)
	assert.Equal(pi.Status.String(), "powered_on")
	assert.Equal(pi.Serial, "SN0123456789")
	assert.True(pi.Caps == onlp.PsuCapsAC|onlp.PsuCapsVout|onlp.PsuCapsPout)
	assert.Int(pi.MilliPout, 210000)

	pi, err = p.PsuInfo(onlp.PsuOID(2))
	assert.Nil(err)
	assert.Equal(pi.Status.String(), "not_installed")

	fi, err := p.FanInfo(onlp.FanOID(Fan1OnPsu1))
	assert.Nil(err)
	assert.Equal(fi.Status.Direction(), "back->front")
	assert.Int(fi.RPM, 7200)
	assert.True(fi.Parent == onlp.PsuOID(1))

	fi, err = p.FanInfo(onlp.FanOID(Fan1OnPsu2))
	assert.Nil(err)
	assert.Equal(fi.Status.String(), "not_installed")

	ti, err := p.ThermalInfo(onlp.ThermalOID(Thermal1OnPsu1))
	assert.Nil(err)
	assert.Int(ti.MilliCelsius, 33000)
	ti, err = p.ThermalInfo(onlp.ThermalOID(Thermal1OnPsu2))
	assert.Nil(err)
	assert.Equal(ti.Status.String(), "not_installed")

	assert.Nil(p.SetFanPercentage(onlp.FanOID(Fan1OnPsu1), 80))
	v, err := PmbusInfoGet(1, "psu_fan1_duty_cycle_percentage")
	assert.Nil(err)
	assert.Int(v, 80)
}

func TestFan(t *testing.T) {
	assert := test.Assert{TB: t}
	mockSys(t, map[string]string{
		FanNode("fan1_present"):   "1\n",
		FanNode("fan1_direction"): "0\n",
		FanNode("fan1_input"):     "12500\n",
		FanNode("fan2_present"):   "1\n",
		FanNode("fan2_fault"):     "1\n",
		FanNode("fan2_input"):     "0\n",
		FanNode("fan3_present"):   "0\n",
		FanNode(DutyCycleNode):    "50\n",
	})
	p := new(Platform)
	fi, err := p.FanInfo(onlp.FanOID(1))
	assert.Nil(err)
	assert.Equal(fi.Status.String(), "ok")
	assert.Equal(fi.Status.Direction(), "front->back")
	assert.Int(fi.RPM, 12500)
	assert.Int(fi.Percentage, 50)

	fi, err = p.FanInfo(onlp.FanOID(2))
	assert.Nil(err)
	assert.Equal(fi.Status.String(), "failed")

	fi, err = p.FanInfo(onlp.FanOID(3))
	assert.Nil(err)
	assert.Equal(fi.Status.String(), "not_installed")

	_, err = p.FanInfo(onlp.FanOID(4))
	assert.Error(err, onlp.ErrInternal)
	_, err = p.FanInfo(onlp.FanOID(7))
	assert.Error(err, onlp.ErrInvalid)

	assert.Nil(p.SetFanPercentage(onlp.FanOID(1), 75))
	v, err := sysfs.ReadInt(FanNode(DutyCycleNode))
	assert.Nil(err)
	assert.Int(v, 75)
	assert.Error(p.SetFanPercentage(onlp.FanOID(1), 101), onlp.ErrParam)
}

func TestLed(t *testing.T) {
	assert := test.Assert{TB: t}
	mockSys(t, map[string]string{
		FanNode("led_sys"): "2\n",
		FanNode("led_loc"): "0\n",
		FanNode("led_pwr"): "9\n",
	})
	p := new(Platform)
	li, err := p.LedInfo(onlp.LedOID(LedSystem))
	assert.Nil(err)
	assert.Equal(li.Mode.String(), "green-blinking")
	assert.True(li.Status&onlp.LedStatusOn != 0)
	assert.True(li.Caps.Has(onlp.LedModeOrange))
	assert.False(li.Caps.Has(onlp.LedModeBlue))

	li, err = p.LedInfo(onlp.LedOID(LedPower))
	assert.Nil(err)
	assert.Equal(li.Status.String(), "failed")

	assert.Nil(p.SetLedMode(onlp.LedOID(LedLoc), onlp.LedModeBlinking))
	li, err = p.LedInfo(onlp.LedOID(LedLoc))
	assert.Nil(err)
	assert.True(li.Mode == onlp.LedModeBlinking)
	assert.Error(p.SetLedMode(onlp.LedOID(LedLoc), onlp.LedModeRed),
		onlp.ErrUnsupported)
	_, err = p.LedInfo(onlp.LedOID(5))
	assert.Error(err, onlp.ErrInvalid)
}

func TestSysInfo(t *testing.T) {
	assert := test.Assert{TB: t}
	mockSys(t, map[string]string{
		OnieEepromPath: string(onie.Encode(
			onie.TLV{Code: onie.ProductName, Value: []byte("SNJ61D0-320F")},
			onie.TLV{Code: onie.PlatformName,
				Value: []byte("x86_64-alphanetworks_snj61d0_320f-r0")},
		)),
	})
	si, err := new(Platform).SysInfo()
	assert.Nil(err)
	assert.Equal(si.Platform, "x86_64-alphanetworks_snj61d0_320f-r0")
	v, err := EepromTlvRead(onie.ProductName)
	assert.Nil(err)
	assert.Equal(string(v), "SNJ61D0-320F")
	_, err = EepromTlvRead(onie.ServiceTag)
	assert.Error(err, onlp.ErrMissing)
}

func TestSfp(t *testing.T) {
	assert := test.Assert{TB: t}
	eeprom := make([]byte, sfpEepromSize)
	eeprom[0] = 0x11
	mockSys(t, map[string]string{
		sfpNode(0, "sfp_is_present"):  "1\n",
		sfpNode(0, "sfp_eeprom"):      string(eeprom),
		sfpNode(33, "sfp_is_present"): "0\n",
	})
	p := new(Platform)
	present, err := p.SfpPresent(0)
	assert.Nil(err)
	assert.True(present)
	b, err := p.SfpEeprom(0)
	assert.Nil(err)
	assert.Int(len(b), sfpEepromSize)
	assert.True(b[0] == 0x11)
	_, err = p.SfpEeprom(33)
	assert.Error(err, onlp.ErrMissing)
	_, err = p.SfpPresent(34)
	assert.Error(err, onlp.ErrInvalid)
}

func TestDiag(t *testing.T) {
	assert := test.Assert{TB: t}
	p := new(Platform)
	assert.False(p.Paused())
	PausePlatformManageSet(true)
	assert.True(p.Paused())
	PausePlatformManageSet(false)
	assert.True(DiagFlagSet(true))
	assert.True(DiagFlag())
	DiagFlagSet(false)
}
