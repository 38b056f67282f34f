// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package pmbus decodes PMBus telemetry registers.
package pmbus

import (
	"math"

	"github.com/platinasystems/goes-onlp/internal/smbus"
)

const (
	Page             uint8 = 0x00
	VoutMode         uint8 = 0x20
	FanCommand1      uint8 = 0x3b
	StatusWord       uint8 = 0x79
	ReadVin          uint8 = 0x88
	ReadIin          uint8 = 0x89
	ReadVout         uint8 = 0x8b
	ReadIout         uint8 = 0x8c
	ReadTemperature1 uint8 = 0x8d
	ReadTemperature2 uint8 = 0x8e
	ReadFanSpeed1    uint8 = 0x90
	ReadPout         uint8 = 0x96
	ReadPin          uint8 = 0x97
	MfrID            uint8 = 0x99
	MfrModel         uint8 = 0x9a
	MfrSerial        uint8 = 0x9e
)

// Linear11 decodes a 5 bit two's complement exponent and an 11 bit two's
// complement mantissa.
func Linear11(v uint16) float64 {
	var n, y int
	if (v >> 11) > 0xf {
		n = -int(((v >> 11) ^ 0x1f) + 1)
	} else {
		n = int(v >> 11)
	}
	m := v & 0x7ff
	if m > 0x3ff {
		y = -int((m ^ 0x7ff) + 1)
	} else {
		y = int(m)
	}
	return float64(y) * math.Exp2(float64(n))
}

// Linear16 decodes an unsigned mantissa with the exponent of the VOUT_MODE
// register.
func Linear16(mode uint8, v uint16) float64 {
	var n int
	e := mode & 0x1f
	if e > 0xf {
		n = -int(((e ^ 0x1f) + 1) & 0x1f)
	} else {
		n = int(e)
	}
	return float64(v) * math.Exp2(float64(n))
}

// TwoComplement decodes the low validBit bits of data as a two's complement
// integer after masking with mask.
func TwoComplement(data uint16, validBit uint8, mask int) int {
	v := int(data) & mask
	if validBit == 0 || validBit > 16 {
		return v
	}
	sign := 1 << (validBit - 1)
	if v&sign != 0 {
		v -= 1 << validBit
	}
	return v
}

// Milli converts to the milli-units of the platform contract.
func Milli(f float64) int { return int(math.Round(f * 1000)) }

// Vout reads the output voltage in milli-volts.
func Vout(dev smbus.Device) (int, error) {
	mode, err := dev.ReadByteData(VoutMode)
	if err != nil {
		return 0, err
	}
	v, err := dev.ReadWordData(ReadVout)
	if err != nil {
		return 0, err
	}
	return Milli(Linear16(mode, v)), nil
}

// ReadLinear11 reads and decodes the given register in milli-units.
func ReadLinear11(dev smbus.Device, reg uint8) (int, error) {
	v, err := dev.ReadWordData(reg)
	if err != nil {
		return 0, err
	}
	return Milli(Linear11(v)), nil
}
