// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onie

import (
	"bytes"
	"testing"

	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/spf13/afero"
)

var image = Encode(
	TLV{ProductName, []byte("SNJ61D0-320F")},
	TLV{PlatformName, []byte("x86_64-alphanetworks_snj61d0_320f-r0")},
	TLV{SerialNumber, []byte("ALP1234567")},
	TLV{MacBase, []byte{0x00, 0x1e, 0x06, 0x12, 0x34, 0x56}},
	TLV{MacSize, []byte{0x00, 0x80}},
	TLV{DeviceVersion, []byte{2}},
	TLV{VendorExt, []byte{0x00, 0x00, 0x9b, 0x44, 0x01}},
)

func TestParse(t *testing.T) {
	assert := test.Assert{TB: t}
	info, err := Parse(image)
	assert.Nil(err)
	assert.Equal(info.Get(ProductName), "SNJ61D0-320F")
	assert.Equal(info.Get(PlatformName),
		"x86_64-alphanetworks_snj61d0_320f-r0")
	assert.Equal(info.Get(MacBase), "00:1e:06:12:34:56")
	assert.Equal(info.Get(MacSize), "128")
	assert.Equal(info.Get(DeviceVersion), "2")
	assert.Equal(info.Get(ServiceTag), "")
	v, found := info.Lookup(SerialNumber)
	assert.True(found)
	assert.Equal(string(v), "ALP1234567")
	_, found = info.Lookup(LabelRevision)
	assert.False(found)
	assert.Equal(info.TLVs[len(info.TLVs)-1].Code.Name(), "CRC32")
	assert.False(VendorExt.IsText())
	assert.True(MacBase.IsText())

	buf := new(bytes.Buffer)
	_, err = info.WriteTo(buf)
	assert.Nil(err)
	assert.Match(buf.String(), "(?m)^ProductName: SNJ61D0-320F$")
	assert.Match(buf.String(), "(?m)^CRC32: 0x[0-9a-f]{8}$")
}

func TestParseErrors(t *testing.T) {
	assert := test.Assert{TB: t}
	_, err := Parse([]byte("TlvInfo"))
	assert.Error(err, ErrHeader)

	bad := append([]byte{}, image...)
	bad[8] = 2
	_, err = Parse(bad)
	assert.Error(err, ErrHeader)

	_, err = Parse(image[:len(image)-3])
	assert.Error(err, ErrTruncated)

	bad = append([]byte{}, image...)
	bad[headerSize+2] ^= 0x20
	_, err = Parse(bad)
	assert.Error(err, ErrCRC)

	bad = append([]byte{}, image[:headerSize]...)
	bad[10] = 0
	_, err = Parse(bad)
	assert.Error(err, ErrNoCRC)
}

func TestFromFile(t *testing.T) {
	assert := test.Assert{TB: t}
	fs := afero.NewMemMapFs()
	fn := "/sys/bus/i2c/devices/0-0056/eeprom"
	// the sysfs file is the full size of the part
	padded := append(append([]byte{}, image...), make([]byte, 256)...)
	assert.Nil(afero.WriteFile(fs, fn, padded, 0444))
	saved := sysfs.Fs
	sysfs.Fs = fs
	defer func() { sysfs.Fs = saved }()
	info, err := FromFile(fn)
	assert.Nil(err)
	assert.Equal(info.Get(SerialNumber), "ALP1234567")
}
