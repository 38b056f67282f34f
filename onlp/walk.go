// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onlp

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

func (s ThermalStatus) String() string {
	switch {
	case s&ThermalStatusFailed != 0:
		return "failed"
	case s&ThermalStatusPresent != 0:
		return "present"
	}
	return "not_installed"
}

func (s FanStatus) String() string {
	switch {
	case s&FanStatusPresent == 0:
		return "not_installed"
	case s&FanStatusFailed != 0:
		return "failed"
	}
	return "ok"
}

// Direction of a fan's airflow, "front->back", "back->front", or "".
func (s FanStatus) Direction() string {
	switch {
	case s&FanStatusF2B != 0:
		return "front->back"
	case s&FanStatusB2F != 0:
		return "back->front"
	}
	return ""
}

func (s PsuStatus) String() string {
	switch {
	case s&PsuStatusPresent == 0:
		return "not_installed"
	case s&(PsuStatusFailed|PsuStatusUnplugged) != 0:
		return "powered_off"
	}
	return "powered_on"
}

func (caps PsuCaps) Input() string {
	switch {
	case caps&PsuCapsAC != 0:
		return "AC"
	case caps&PsuCapsDC48 != 0:
		return "DC48"
	case caps&PsuCapsDC12 != 0:
		return "DC12"
	}
	return "unknown"
}

func (s LedStatus) String() string {
	if s&LedStatusPresent == 0 {
		return "not_installed"
	}
	if s&LedStatusFailed != 0 {
		return "failed"
	}
	return "ok"
}

// Walk calls f with the "OBJECT.ID.FIELD" key and value of each published
// field of every object of the platform. Objects that fail are skipped
// after recording a "OBJECT.ID.error" field; Walk returns the first such
// error.
func Walk(p Platform, f func(k string, v interface{})) error {
	var first error
	fail := func(oid OID, err error) {
		f(key(oid, "error"), StatusOf(err))
		if first == nil {
			first = errors.Wrap(err, oid.String())
		}
	}
	if sys, ok := p.(Syser); ok {
		if si, err := sys.SysInfo(); err != nil {
			fail(NewOID(TypeSys, 1), err)
		} else {
			f("platform", si.Platform)
			if si.ONIE != nil {
				for _, tlv := range si.ONIE.TLVs {
					if tlv.Code.IsText() {
						f("eeprom."+tlv.Code.Name(), tlv.String())
					}
				}
			}
		}
	}
	if t, ok := p.(Thermals); ok {
		for _, oid := range t.ThermalOIDs() {
			ti, err := t.ThermalInfo(oid)
			if err != nil {
				fail(oid, err)
				continue
			}
			walkThermal(ti, f)
		}
	}
	if t, ok := p.(Fans); ok {
		for _, oid := range t.FanOIDs() {
			fi, err := t.FanInfo(oid)
			if err != nil {
				fail(oid, err)
				continue
			}
			walkFan(fi, f)
		}
	}
	if t, ok := p.(Psus); ok {
		for _, oid := range t.PsuOIDs() {
			pi, err := t.PsuInfo(oid)
			if err != nil {
				fail(oid, err)
				continue
			}
			walkPsu(pi, f)
		}
	}
	if t, ok := p.(Leds); ok {
		for _, oid := range t.LedOIDs() {
			li, err := t.LedInfo(oid)
			if err != nil {
				fail(oid, err)
				continue
			}
			f(key(oid, "name"), li.Description)
			f(key(oid, "status"), li.Status)
			if li.Status&LedStatusPresent != 0 {
				f(key(oid, "mode"), li.Mode)
			}
		}
	}
	if t, ok := p.(Sfps); ok {
		for _, port := range t.SfpBitmap() {
			present, err := t.SfpPresent(port)
			k := fmt.Sprint("port.", port, ".present")
			if err != nil {
				if first == nil {
					first = errors.Wrapf(err, "port %d", port)
				}
				continue
			}
			f(k, present)
		}
	}
	return first
}

func key(oid OID, field string) string {
	return fmt.Sprint(oid.Type(), ".", oid.ID(), ".", field)
}

func walkThermal(ti *ThermalInfo, f func(string, interface{})) {
	oid := ti.ID
	f(key(oid, "name"), ti.Description)
	f(key(oid, "status"), ti.Status)
	if ti.Parent != 0 {
		f(key(oid, "parent"), ti.Parent)
	}
	if ti.Status&ThermalStatusPresent == 0 {
		return
	}
	if ti.Caps&ThermalCapsGetTemperature != 0 {
		f(key(oid, "temp.units.mC"), ti.MilliCelsius)
	}
	if ti.Caps&ThermalCapsGetWarningThreshold != 0 {
		f(key(oid, "warning.units.mC"), ti.Warning)
	}
	if ti.Caps&ThermalCapsGetErrorThreshold != 0 {
		f(key(oid, "error.units.mC"), ti.Error)
	}
	if ti.Caps&ThermalCapsGetShutdownThreshold != 0 {
		f(key(oid, "shutdown.units.mC"), ti.Shutdown)
	}
}

func walkFan(fi *FanInfo, f func(string, interface{})) {
	oid := fi.ID
	f(key(oid, "name"), fi.Description)
	f(key(oid, "status"), fi.Status)
	if fi.Status&FanStatusPresent == 0 {
		return
	}
	if d := fi.Status.Direction(); len(d) > 0 {
		f(key(oid, "fan_direction"), d)
	}
	if fi.Caps&FanCapsGetRPM != 0 {
		f(key(oid, "speed.units.rpm"), fi.RPM)
	}
	if fi.Caps&FanCapsGetPercentage != 0 {
		f(key(oid, "percentage"), fi.Percentage)
	}
	if len(fi.Model) > 0 {
		f(key(oid, "model"), fi.Model)
	}
	if len(fi.Serial) > 0 {
		f(key(oid, "sn"), fi.Serial)
	}
}

func walkPsu(pi *PsuInfo, f func(string, interface{})) {
	oid := pi.ID
	f(key(oid, "name"), pi.Description)
	f(key(oid, "status"), pi.Status)
	if pi.Status&PsuStatusPresent == 0 {
		return
	}
	f(key(oid, "input"), pi.Caps.Input())
	if len(pi.Model) > 0 {
		f(key(oid, "model"), pi.Model)
	}
	if len(pi.Serial) > 0 {
		f(key(oid, "sn"), pi.Serial)
	}
	for _, x := range []struct {
		cap   PsuCaps
		field string
		v     int
	}{
		{PsuCapsVin, "v_in.units.mV", pi.MilliVin},
		{PsuCapsVout, "v_out.units.mV", pi.MilliVout},
		{PsuCapsIin, "i_in.units.mA", pi.MilliIin},
		{PsuCapsIout, "i_out.units.mA", pi.MilliIout},
		{PsuCapsPin, "p_in.units.mW", pi.MilliPin},
		{PsuCapsPout, "p_out.units.mW", pi.MilliPout},
	} {
		if pi.Caps&x.cap != 0 {
			f(key(oid, x.field), x.v)
		}
	}
}

// Dump writes "KEY: VALUE" lines of each platform field.
func Dump(w io.Writer, p Platform) error {
	return Walk(p, func(k string, v interface{}) {
		s := fmt.Sprint(v)
		if strings.ContainsAny(s, "\n") {
			s = fmt.Sprintf("%q", s)
		}
		fmt.Fprint(w, k, ": ", s, "\n")
	})
}
