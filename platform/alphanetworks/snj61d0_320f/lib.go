// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package snj61d0_320f provides the platform of the Alpha Networks
// SNJ61D0-320F, a 32 port 400G QSFP and 2 port 10G SFP switch.
package snj61d0_320f

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/platinasystems/log"
)

const (
	Psu1ID = 1
	Psu2ID = 2

	ChassisLedCount = 4
	ChassisPsuCount = 2

	Psu1PmbusPrefix  = "/sys/bus/i2c/devices/9-0058/"
	Psu2PmbusPrefix  = "/sys/bus/i2c/devices/10-0059/"
	Psu1HwmonPrefix  = "/sys/bus/i2c/devices/0-005e/"
	Psu2HwmonPrefix  = "/sys/bus/i2c/devices/0-005e/"
	Psu1EepromPrefix = "/sys/bus/i2c/devices/9-0050/"
	Psu2EepromPrefix = "/sys/bus/i2c/devices/10-0051/"
	FanBoardPath     = "/sys/bus/i2c/devices/0-005e/"
	OnieEepromPath   = "/sys/bus/i2c/devices/0-0056/eeprom"

	NumSfpPort       = 34
	SfpStartIndex    = 0
	SfpEepromAddr    = 0x50
	SfpDomEepromAddr = 0x51
	Sfp0PortIndex    = 32
	Sfp1PortIndex    = 33
	QsfpPortIndexMin = 0
	QsfpPortIndexMax = 31
)

const (
	ThermalCpuCore = 1 + iota
	Thermal1OnCpuBoard
	Thermal1OnMainBoard
	Thermal2OnMainBoard
	Thermal1OnPsu1
	Thermal1OnPsu2
	thermalIDMax

	ChassisThermalCount = thermalIDMax - ChassisPsuCount - 1
)

// Fan board fan numbers.
const (
	Fan1OnFanBoard = 1 + iota
	Fan2OnFanBoard
	Fan3OnFanBoard
	Fan4OnFanBoard
	Fan5OnFanBoard
	Fan6OnFanBoard
	Fan1OnPsu1Board
	Fan1OnPsu2Board
	fanBoardIDMax

	ChassisFanCount = fanBoardIDMax - ChassisPsuCount - 1
)

// Fan OID numbers.
const (
	Fan1 = 1 + iota
	Fan2
	Fan3
	Fan4
	Fan1OnPsu1
	Fan1OnPsu2
)

const (
	LedSystem = 1 + iota
	LedPower
	LedFan
	LedLoc
)

func IsSfpPort(port int) bool  { return port >= Sfp0PortIndex && port <= Sfp1PortIndex }
func IsQsfpPort(port int) bool { return port >= QsfpPortIndexMin && port <= QsfpPortIndexMax }
func IsSfp0Port(port int) bool { return port == Sfp0PortIndex }
func IsSfp1Port(port int) bool { return port == Sfp1PortIndex }

func PmbusNode(id int, node string) string {
	if id == Psu2ID {
		return Psu2PmbusPrefix + node
	}
	return Psu1PmbusPrefix + node
}

func EepromNode(id int, node string) string {
	if id == Psu2ID {
		return Psu2EepromPrefix + node
	}
	return Psu1EepromPrefix + node
}

func HwmonNode(id int, node string) string {
	if id == Psu2ID {
		return Psu2HwmonPrefix + node
	}
	return Psu1HwmonPrefix + node
}

func FanNode(node string) string { return FanBoardPath + node }

type PsuType int

const (
	PsuTypeUnknown PsuType = iota
	PsuTypeAcF2B
	PsuTypeAcB2F
	PsuTypeDc48vF2B
	PsuTypeDc48vB2F
)

func (t PsuType) String() string {
	switch t {
	case PsuTypeAcF2B:
		return "AC_F2B"
	case PsuTypeAcB2F:
		return "AC_B2F"
	case PsuTypeDc48vF2B:
		return "DC_48V_F2B"
	case PsuTypeDc48vB2F:
		return "DC_48V_B2F"
	}
	return "UNKNOWN"
}

func (t PsuType) IsAC() bool { return t == PsuTypeAcF2B || t == PsuTypeAcB2F }
func (t PsuType) IsDC() bool { return t == PsuTypeDc48vF2B || t == PsuTypeDc48vB2F }
func (t PsuType) IsF2B() bool {
	return t == PsuTypeAcF2B || t == PsuTypeDc48vF2B
}

// psuTypes classifies model names by prefix, first match.
var psuTypes = []struct {
	prefix string
	typ    PsuType
}{
	{"YESM1300AM-2A", PsuTypeAcF2B},
	{"YESM1300AM-2R", PsuTypeAcB2F},
	{"YESM1300DM-2A", PsuTypeDc48vF2B},
	{"YESM1300DM-2R", PsuTypeDc48vB2F},
}

const (
	psuModelNode  = "psu_mfr_model"
	psuSerialNode = "psu_mfr_serial"
	psuModelLen   = 32
	psuSerialLen  = 32
)

// PsuTypeGet returns the type and model name of the given PSU.
func PsuTypeGet(id int) (PsuType, string, error) {
	model, err := sysfs.ReadString(PmbusNode(id, psuModelNode),
		psuModelLen)
	if err != nil {
		return PsuTypeUnknown, "", errors.Wrapf(onlp.ErrInternal,
			"psu %d: %v", id, err)
	}
	for _, x := range psuTypes {
		if strings.HasPrefix(model, x.prefix) {
			return x.typ, model, nil
		}
	}
	return PsuTypeUnknown, model, nil
}

func PsuSerialNumberGet(id int) (string, error) {
	sn, err := sysfs.ReadString(PmbusNode(id, psuSerialNode),
		psuSerialLen)
	if err != nil {
		return "", errors.Wrapf(onlp.ErrInternal, "psu %d: %v", id, err)
	}
	return sn, nil
}

// PmbusInfoGet reads a YESM1300AM PMBus node, e.g. psu_v_out.
func PmbusInfoGet(id int, node string) (int, error) {
	v, err := sysfs.ReadInt(PmbusNode(id, node))
	if err != nil {
		return 0, errors.Wrapf(onlp.ErrInternal, "psu %d: %v", id, err)
	}
	return v, nil
}

func PmbusInfoSet(id int, node string, v int) error {
	if err := sysfs.WriteInt(PmbusNode(id, node), v); err != nil {
		return errors.Wrapf(onlp.ErrInternal, "psu %d: %v", id, err)
	}
	return nil
}

// EepromTlvRead returns the value of the first ONIE TLV of the given code.
func EepromTlvRead(code onie.Code) ([]byte, error) {
	info, err := onie.FromFile(OnieEepromPath)
	if err != nil {
		return nil, errors.Wrapf(onlp.ErrInternal, "%v", err)
	}
	v, found := info.Lookup(code)
	if !found {
		return nil, errors.Wrapf(onlp.ErrMissing, "tlv 0x%02x", uint8(code))
	}
	return v, nil
}

type SfpControl int

const (
	SfpControlReset SfpControl = iota
	SfpControlResetState
	SfpControlRxLos
	SfpControlTxFault
	SfpControlTxDisable
	SfpControlTxDisableChannel
	SfpControlLpMode
	SfpControlPowerOverride
)

var sfpControlNames = []string{
	SfpControlReset:            "RESET",
	SfpControlResetState:       "RESET_STATE",
	SfpControlRxLos:            "RX_LOS",
	SfpControlTxFault:          "TX_FAULT",
	SfpControlTxDisable:        "TX_DISABLE",
	SfpControlTxDisableChannel: "TX_DISABLE_CHANNEL",
	SfpControlLpMode:           "LP_MODE",
	SfpControlPowerOverride:    "POWER_OVERRIDE",
}

func (c SfpControl) String() string {
	if c >= 0 && int(c) < len(sfpControlNames) {
		return sfpControlNames[c]
	}
	return "UNKNOWN"
}

var diag struct {
	flag, trace, pause int32
}

func set(p *int32, on bool) bool {
	v := int32(0)
	if on {
		v = 1
	}
	atomic.StoreInt32(p, v)
	return on
}

func DiagFlagSet(on bool) bool { return set(&diag.flag, on) }
func DiagFlag() bool           { return atomic.LoadInt32(&diag.flag) != 0 }

func DiagTraceSet(on bool) bool { return set(&diag.trace, on) }
func DiagTrace() bool           { return atomic.LoadInt32(&diag.trace) != 0 }

// PausePlatformManageSet stops the daemon's polling of the platform while
// the board is under diagnosis.
func PausePlatformManageSet(on bool) bool { return set(&diag.pause, on) }
func PausePlatformManage() bool           { return atomic.LoadInt32(&diag.pause) != 0 }

// DiagPrint logs if trace or diag is on.
func DiagPrint(args ...interface{}) {
	switch {
	case DiagTrace():
		log.Print("daemon", "debug", "[TRACE] ", fmt.Sprint(args...))
	case DiagFlag():
		log.Print("daemon", "info", "[DIAG] ", fmt.Sprint(args...))
	}
}
