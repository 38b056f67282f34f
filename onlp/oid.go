// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package onlp defines the platform contract implemented by each switch
// board: numeric object identifiers, per-object info records, status
// codes, and the interfaces a board adapter provides.
package onlp

import "fmt"

// OID is an object identifier, the object Type in the top byte and a
// board specific id in the low 24 bits.
type OID uint32

type Type uint8

const (
	TypeSys Type = 1 + iota
	TypeThermal
	TypeFan
	TypePsu
	TypeLed
	TypeModule
	TypeRtc
)

const idMask = 0xffffff

func NewOID(t Type, id int) OID { return OID(uint32(t)<<24 | uint32(id)&idMask) }

func ThermalOID(id int) OID { return NewOID(TypeThermal, id) }
func FanOID(id int) OID     { return NewOID(TypeFan, id) }
func PsuOID(id int) OID     { return NewOID(TypePsu, id) }
func LedOID(id int) OID     { return NewOID(TypeLed, id) }
func ModuleOID(id int) OID  { return NewOID(TypeModule, id) }

func (oid OID) Type() Type { return Type(oid >> 24) }
func (oid OID) ID() int    { return int(oid & idMask) }

func (oid OID) IsThermal() bool { return oid.Type() == TypeThermal }
func (oid OID) IsFan() bool     { return oid.Type() == TypeFan }
func (oid OID) IsPsu() bool     { return oid.Type() == TypePsu }
func (oid OID) IsLed() bool     { return oid.Type() == TypeLed }
func (oid OID) IsModule() bool  { return oid.Type() == TypeModule }

func (oid OID) String() string {
	if oid == 0 {
		return "none"
	}
	return fmt.Sprint(oid.Type(), ".", oid.ID())
}

func (t Type) String() string {
	switch t {
	case TypeSys:
		return "sys"
	case TypeThermal:
		return "thermal"
	case TypeFan:
		return "fan"
	case TypePsu:
		return "psu"
	case TypeLed:
		return "led"
	case TypeModule:
		return "module"
	case TypeRtc:
		return "rtc"
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}
