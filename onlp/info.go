// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onlp

import "strings"

// Hdr is common to every info record.
type Hdr struct {
	ID          OID
	Description string
	// Parent is zero for chassis objects.
	Parent OID
}

type ThermalCaps uint32

const (
	ThermalCapsGetTemperature ThermalCaps = 1 << iota
	ThermalCapsGetWarningThreshold
	ThermalCapsGetErrorThreshold
	ThermalCapsGetShutdownThreshold

	ThermalCapsAll ThermalCaps = 0xf
)

type ThermalStatus uint32

const (
	ThermalStatusPresent ThermalStatus = 1 << iota
	ThermalStatusFailed
)

// Thresholds are in milli-celsius.
type Thresholds struct {
	Warning  int
	Error    int
	Shutdown int
}

// DefaultThresholds apply to sensors without board specific limits.
var DefaultThresholds = Thresholds{
	Warning:  45000,
	Error:    55000,
	Shutdown: 60000,
}

type ThermalInfo struct {
	Hdr
	Status       ThermalStatus
	Caps         ThermalCaps
	MilliCelsius int
	Thresholds
}

type FanCaps uint32

const (
	FanCapsB2F FanCaps = 1 << iota
	FanCapsF2B
	FanCapsSetRPM
	FanCapsSetPercentage
	FanCapsGetRPM
	FanCapsGetPercentage
)

type FanStatus uint32

const (
	FanStatusPresent FanStatus = 1 << iota
	FanStatusFailed
	FanStatusB2F
	FanStatusF2B
)

type FanInfo struct {
	Hdr
	Status     FanStatus
	Caps       FanCaps
	RPM        int
	Percentage int
	Model      string
	Serial     string
}

type PsuCaps uint32

const (
	PsuCapsAC PsuCaps = 1 << iota
	PsuCapsDC12
	PsuCapsDC48
	PsuCapsVin
	PsuCapsVout
	PsuCapsIin
	PsuCapsIout
	PsuCapsPin
	PsuCapsPout
)

type PsuStatus uint32

const (
	PsuStatusPresent PsuStatus = 1 << iota
	PsuStatusFailed
	PsuStatusUnplugged
)

// PsuInfo readings are in milli-volts, milli-amps, and milli-watts.
type PsuInfo struct {
	Hdr
	Status    PsuStatus
	Caps      PsuCaps
	Model     string
	Serial    string
	MilliVin  int
	MilliVout int
	MilliIin  int
	MilliIout int
	MilliPin  int
	MilliPout int
}

type LedMode int

const (
	LedModeOff LedMode = iota
	LedModeOn
	LedModeBlinking
	LedModeRed
	LedModeRedBlinking
	LedModeOrange
	LedModeOrangeBlinking
	LedModeYellow
	LedModeGreen
	LedModeGreenBlinking
	LedModeBlue
	LedModeAuto
)

var ledModeNames = []string{
	LedModeOff:            "off",
	LedModeOn:             "on",
	LedModeBlinking:       "blinking",
	LedModeRed:            "red",
	LedModeRedBlinking:    "red-blinking",
	LedModeOrange:         "orange",
	LedModeOrangeBlinking: "orange-blinking",
	LedModeYellow:         "yellow",
	LedModeGreen:          "green",
	LedModeGreenBlinking:  "green-blinking",
	LedModeBlue:           "blue",
	LedModeAuto:           "auto",
}

func (m LedMode) String() string {
	if m >= 0 && int(m) < len(ledModeNames) {
		return ledModeNames[m]
	}
	return "unknown"
}

// ParseLedMode is the inverse of LedMode.String.
func ParseLedMode(s string) (LedMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range ledModeNames {
		if name == s {
			return LedMode(i), nil
		}
	}
	return LedModeOff, ErrParam
}

type LedCaps uint32

type LedStatus uint32

const (
	LedStatusPresent LedStatus = 1 << iota
	LedStatusFailed
	LedStatusOn
)

// LedCap returns the capability bit of the given mode.
func LedCap(m LedMode) LedCaps { return 1 << uint(m) }

type LedInfo struct {
	Hdr
	Status LedStatus
	Caps   LedCaps
	Mode   LedMode
}

func (caps LedCaps) Has(m LedMode) bool { return caps&LedCap(m) != 0 }
