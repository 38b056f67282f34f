// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package onie parses the ONIE TlvInfo system EEPROM format: an 8 byte
// "TlvInfo" id, a version byte, a big endian 16 bit length, then that many
// bytes of type-length-value records ending with a CRC-32.
package onie

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"net"
	"strings"

	"github.com/pkg/errors"
	"github.com/platinasystems/eeprom"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
)

const (
	ID         = "TlvInfo\x00"
	Version    = 0x01
	headerSize = 11
	// MaxSize of the TLV area.
	MaxSize = 2048
)

var (
	ErrHeader    = errors.New("not in ONIE TlvInfo format")
	ErrTruncated = errors.New("truncated")
	ErrCRC       = errors.New("crc mismatch")
	ErrNoCRC     = errors.New("missing crc")
)

type Code uint8

const (
	ProductName     Code = 0x21
	PartNumber      Code = 0x22
	SerialNumber    Code = 0x23
	MacBase         Code = 0x24
	ManufactureDate Code = 0x25
	DeviceVersion   Code = 0x26
	LabelRevision   Code = 0x27
	PlatformName    Code = 0x28
	OnieVersion     Code = 0x29
	MacSize         Code = 0x2a
	Manufacturer    Code = 0x2b
	CountryCode     Code = 0x2c
	Vendor          Code = 0x2d
	DiagVersion     Code = 0x2e
	ServiceTag      Code = 0x2f
	VendorExt       Code = 0xfd
	CRC32           Code = 0xfe
)

var codeNames = map[Code]string{
	ProductName:     "ProductName",
	PartNumber:      "PartNumber",
	SerialNumber:    "SerialNumber",
	MacBase:         "BaseEthernetAddress",
	ManufactureDate: "ManufactureDate",
	DeviceVersion:   "DeviceVersion",
	LabelRevision:   "LabelRevision",
	PlatformName:    "PlatformName",
	OnieVersion:     "ONIEVersion",
	MacSize:         "NEthernetAddress",
	Manufacturer:    "Manufacturer",
	CountryCode:     "CountryCode",
	Vendor:          "Vendor",
	DiagVersion:     "DiagVersion",
	ServiceTag:      "ServiceTag",
	VendorExt:       "VendorExtension",
	CRC32:           "CRC32",
}

func (c Code) Name() string {
	if s, found := codeNames[c]; found {
		return s
	}
	return fmt.Sprintf("0x%02x", uint8(c))
}

// IsText is true of codes with printable values, including those, like the
// base MAC address, formatted by TLV.String.
func (c Code) IsText() bool {
	_, found := codeNames[c]
	return found && c != VendorExt
}

type TLV struct {
	Code  Code
	Value []byte
}

func (t TLV) String() string {
	switch t.Code {
	case MacBase:
		if len(t.Value) == 6 {
			return net.HardwareAddr(t.Value).String()
		}
	case DeviceVersion:
		if len(t.Value) == 1 {
			return fmt.Sprint(t.Value[0])
		}
	case MacSize:
		if len(t.Value) == 2 {
			return fmt.Sprint(binary.BigEndian.Uint16(t.Value))
		}
	case CRC32:
		if len(t.Value) == 4 {
			return fmt.Sprintf("0x%08x",
				binary.BigEndian.Uint32(t.Value))
		}
	case VendorExt:
		return fmt.Sprintf("% x", t.Value)
	}
	return strings.TrimRight(string(t.Value), "\x00")
}

type Info struct {
	TLVs []TLV
}

// Parse and verify an EEPROM image.
func Parse(b []byte) (*Info, error) {
	if len(b) < headerSize || string(b[:len(ID)]) != ID ||
		b[len(ID)] != Version {
		return nil, ErrHeader
	}
	n := int(binary.BigEndian.Uint16(b[9:11]))
	if n > MaxSize || headerSize+n > len(b) {
		return nil, errors.Wrapf(ErrTruncated, "length %d of %d",
			n, len(b)-headerSize)
	}
	info := new(Info)
	crcFound := false
	for i := headerSize; i < headerSize+n; {
		if i+2 > headerSize+n {
			return nil, errors.Wrapf(ErrTruncated, "tlv at %d", i)
		}
		c, l := Code(b[i]), int(b[i+1])
		if i+2+l > headerSize+n {
			return nil, errors.Wrapf(ErrTruncated, "%s at %d",
				c.Name(), i)
		}
		v := b[i+2 : i+2+l]
		if c == CRC32 {
			if l != 4 {
				return nil, errors.Wrapf(ErrCRC, "length %d", l)
			}
			expect := binary.BigEndian.Uint32(v)
			if sum := crc32.ChecksumIEEE(b[:i+2]); sum != expect {
				return nil, errors.Wrapf(ErrCRC,
					"0x%08x != 0x%08x", sum, expect)
			}
			crcFound = true
		}
		info.TLVs = append(info.TLVs, TLV{c, append([]byte{}, v...)})
		i += 2 + l
		if c == CRC32 {
			break
		}
	}
	if !crcFound {
		return nil, ErrNoCRC
	}
	return info, nil
}

// Encode formats the TLVs, less any given CRC, with a header and trailing
// CRC-32.
func Encode(tlvs ...TLV) []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(ID)
	buf.WriteByte(Version)
	buf.Write([]byte{0, 0})
	n := 0
	for _, t := range tlvs {
		if t.Code == CRC32 {
			continue
		}
		buf.WriteByte(byte(t.Code))
		buf.WriteByte(byte(len(t.Value)))
		buf.Write(t.Value)
		n += 2 + len(t.Value)
	}
	buf.WriteByte(byte(CRC32))
	buf.WriteByte(4)
	n += 6
	b := buf.Bytes()
	binary.BigEndian.PutUint16(b[9:11], uint16(n))
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], crc32.ChecksumIEEE(b))
	return append(b, sum[:]...)
}

// Lookup returns the value of the first TLV with the given code.
func (info *Info) Lookup(c Code) ([]byte, bool) {
	for _, t := range info.TLVs {
		if t.Code == c {
			return t.Value, true
		}
	}
	return nil, false
}

// Get returns the formatted value of the given code or "".
func (info *Info) Get(c Code) string {
	for _, t := range info.TLVs {
		if t.Code == c {
			return t.String()
		}
	}
	return ""
}

// WriteTo writes a "NAME: VALUE" line of each TLV.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, t := range info.TLVs {
		i, err := fmt.Fprint(w, t.Code.Name(), ": ", t, "\n")
		n += int64(i)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// FromFile reads and parses an EEPROM image, e.g.
// /sys/bus/i2c/devices/0-0056/eeprom
func FromFile(fn string) (*Info, error) {
	b, err := sysfs.ReadBinary(fn, headerSize+MaxSize)
	if err != nil {
		return nil, err
	}
	info, err := Parse(b)
	return info, errors.Wrap(err, fn)
}

// FromI2c reads the EEPROM at the given bus address without a kernel
// driver.
func FromI2c(bus, addr int) (*Info, error) {
	d := eeprom.Device{
		BusIndex:   bus,
		BusAddress: addr,
	}
	if err := d.GetInfo(); err != nil {
		return nil, errors.Wrapf(err, "eeprom %d-%04x", bus, addr)
	}
	f := &d.Fields
	info := new(Info)
	text := func(c Code, s string) {
		if len(s) > 0 {
			info.TLVs = append(info.TLVs, TLV{c, []byte(s)})
		}
	}
	text(ProductName, f.ProductName)
	text(PartNumber, f.PartNumber)
	text(SerialNumber, f.SerialNumber)
	info.TLVs = append(info.TLVs,
		TLV{MacBase, append([]byte{}, f.BaseEthernetAddress[:]...)})
	text(ManufactureDate, f.ManufactureDate)
	info.TLVs = append(info.TLVs, TLV{DeviceVersion, []byte{f.DeviceVersion}})
	text(PlatformName, f.PlatformName)
	text(OnieVersion, f.ONIEVersion)
	info.TLVs = append(info.TLVs, TLV{MacSize,
		[]byte{byte(f.NEthernetAddress >> 8), byte(f.NEthernetAddress)}})
	text(Manufacturer, f.Manufacturer)
	text(CountryCode, f.CountryCode)
	text(Vendor, f.Vendor)
	text(DiagVersion, f.DiagVersion)
	text(ServiceTag, f.ServiceTag)
	var sum [4]byte
	binary.BigEndian.PutUint32(sum[:], uint32(f.CRC32))
	info.TLVs = append(info.TLVs, TLV{CRC32, sum[:]})
	return info, nil
}
