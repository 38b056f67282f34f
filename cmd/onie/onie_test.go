// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onie

import (
	"bytes"
	"os"
	"testing"

	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/platinasystems/goes-onlp/platform"
	"github.com/spf13/afero"
)

func TestMain(m *testing.M) {
	sysfs.Fs = afero.NewMemMapFs()
	afero.WriteFile(sysfs.Fs, platform.OnieEeprom, onie.Encode(
		onie.TLV{Code: onie.ProductName, Value: []byte("AS7315-27XB")},
		onie.TLV{Code: onie.PlatformName,
			Value: []byte("x86_64-accton_as7315_27xb-r0")},
		onie.TLV{Code: onie.MacBase,
			Value: []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}},
	), 0444)
	afero.WriteFile(sysfs.Fs, "/tmp/bad", []byte("garbage"), 0444)
	os.Exit(m.Run())
}

func TestDefault(t *testing.T) {
	assert := test.Assert{TB: t}
	buf := new(bytes.Buffer)
	Stdout = buf
	assert.Nil(Command{}.Main())
	assert.Match(buf.String(), `^ProductName: AS7315-27XB
PlatformName: x86_64-accton_as7315_27xb-r0
BaseEthernetAddress: 00:11:22:33:44:55
CRC32: 0x[0-9a-f]{8}
$`)
}

func TestErrors(t *testing.T) {
	assert := test.Assert{TB: t}
	Stdout = new(bytes.Buffer)
	assert.Error(Command{}.Main("/tmp/bad"), onie.ErrHeader)
	assert.Error(Command{}.Main("a", "b"), "[b]: unexpected")
	assert.Error(Command{}.Main("-i2c", "x"), "x: invalid BUS-ADDR")
}
