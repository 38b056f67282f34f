// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package psu

import "fmt"

type Type int

const (
	YM1401A Type = iota
	YM2401JCR
	YM2401JDR
	YM2401TCR
	CPR4011M11
	CPR4011M21
	CPR6011M11
	CPR6011M21
	UM400D01G
	UM400D0101G
)

var typeNames = []string{
	YM1401A:     "YM-1401A",
	YM2401JCR:   "YM-2401JCR",
	YM2401JDR:   "YM-2401JDR",
	YM2401TCR:   "YM-2401TCR",
	CPR4011M11:  "CPR-4011-4M11",
	CPR4011M21:  "CPR-4011-4M21",
	CPR6011M11:  "CPR-6011-2M11",
	CPR6011M21:  "CPR-6011-2M21",
	UM400D01G:   "UM400D-01G",
	UM400D0101G: "UM400D01-01G",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", int(t))
}

var (
	ymSerial      = &Field{0x35, 19}
	cpr4011Serial = &Field{0x47, 15}
	cpr6011Serial = &Field{0x46, 15}
)

// Accton is the model table of the Accton YM, CPR, and UM400D supplies.
// The UM400D models don't have a serial number field.
var Accton = Table{
	{YM1401A, "YM-1401ACR", Field{0x20, 11}, true, ymSerial, AC110V, B2F},
	{YM2401JCR, "YM-2401JCR", Field{0x20, 11}, true, ymSerial, AC110V, F2B},
	{YM2401JDR, "YM-2401JDR", Field{0x20, 11}, true, ymSerial, AC110V, B2F},
	{YM2401TCR, "YM-2401TCR", Field{0x20, 11}, true, ymSerial, AC110V, B2F},
	{CPR4011M11, "CPR-4011-4M11", Field{0x26, 13}, false, cpr4011Serial, AC110V, F2B},
	{CPR4011M21, "CPR-4011-4M21", Field{0x26, 13}, false, cpr4011Serial, AC110V, B2F},
	{CPR6011M11, "CPR-6011-2M11", Field{0x26, 13}, false, cpr6011Serial, AC110V, F2B},
	{CPR6011M21, "CPR-6011-2M21", Field{0x26, 13}, false, cpr6011Serial, AC110V, B2F},
	{UM400D01G, "um400d01G", Field{0x50, 9}, false, nil, DC48V, F2B},
	{UM400D0101G, "um400d01-01G", Field{0x50, 12}, false, nil, DC48V, B2F},
}
