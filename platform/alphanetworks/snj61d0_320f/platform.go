// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package snj61d0_320f

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
)

const Name = "alphanetworks-snj61d0-320f"

func init() {
	onlp.Register(Name, func() onlp.Platform { return new(Platform) })
}

type Platform struct{}

func (*Platform) Name() string { return Name }

func (*Platform) Init() error {
	DiagPrint("init ", Name)
	return nil
}

// Paused while the board is under diagnosis.
func (*Platform) Paused() bool { return PausePlatformManage() }

func (*Platform) SysInfo() (*onlp.SysInfo, error) {
	info, err := onie.FromFile(OnieEepromPath)
	if err != nil {
		return nil, errors.Wrapf(onlp.ErrInternal, "%v", err)
	}
	si := &onlp.SysInfo{Platform: Name, ONIE: info}
	if v, found := info.Lookup(onie.PlatformName); found {
		si.Platform = string(v)
	}
	return si, nil
}

var coretemp = []string{
	"/sys/devices/platform/coretemp.0*temp2_input",
	"/sys/devices/platform/coretemp.0*temp3_input",
	"/sys/devices/platform/coretemp.0*temp4_input",
	"/sys/devices/platform/coretemp.0*temp5_input",
}

var thermals = [...]struct {
	name  string
	files []string
}{
	ThermalCpuCore:      {"CPU Core", coretemp},
	Thermal1OnCpuBoard:  {"CPU Board", []string{FanNode("temp1_input")}},
	Thermal1OnMainBoard: {"Main Board Hot Spot", []string{FanNode("temp2_input")}},
	Thermal2OnMainBoard: {"Main Board Ambient", []string{FanNode("temp3_input")}},
	Thermal1OnPsu1:      {"PSU-1 Thermal Sensor 1", []string{PmbusNode(Psu1ID, "psu_temp1_input")}},
	Thermal1OnPsu2:      {"PSU-2 Thermal Sensor 1", []string{PmbusNode(Psu2ID, "psu_temp1_input")}},
}

func (*Platform) ThermalOIDs() []onlp.OID {
	oids := make([]onlp.OID, 0, thermalIDMax-1)
	for id := 1; id < thermalIDMax; id++ {
		oids = append(oids, onlp.ThermalOID(id))
	}
	return oids
}

func (*Platform) ThermalInfo(oid onlp.OID) (*onlp.ThermalInfo, error) {
	id := oid.ID()
	if !oid.IsThermal() || id < 1 || id >= thermalIDMax {
		return nil, onlp.Invalid(oid)
	}
	ti := &onlp.ThermalInfo{
		Hdr:        onlp.Hdr{ID: oid, Description: thermals[id].name},
		Caps:       onlp.ThermalCapsAll,
		Thresholds: onlp.DefaultThresholds,
	}
	switch id {
	case Thermal1OnPsu1:
		ti.Parent = onlp.PsuOID(Psu1ID)
	case Thermal1OnPsu2:
		ti.Parent = onlp.PsuOID(Psu2ID)
	}
	if ti.Parent != 0 {
		if present, err := psuPresent(ti.Parent.ID()); err != nil {
			return ti, err
		} else if !present {
			return ti, nil
		}
	}
	ti.Status |= onlp.ThermalStatusPresent
	mC, err := sysfs.ReadIntMax(thermals[id].files...)
	if err != nil {
		return ti, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	ti.MilliCelsius = mC
	DiagPrint(oid, " ", mC, "mC")
	return ti, nil
}

func psuPresent(id int) (bool, error) {
	v, err := sysfs.ReadInt(HwmonNode(id, fmt.Sprintf("psu%d_present", id)))
	if err != nil {
		return false, errors.Wrapf(onlp.ErrInternal, "psu %d: %v", id, err)
	}
	return v != 0, nil
}

func (*Platform) PsuOIDs() []onlp.OID {
	return []onlp.OID{onlp.PsuOID(Psu1ID), onlp.PsuOID(Psu2ID)}
}

func (*Platform) PsuInfo(oid onlp.OID) (*onlp.PsuInfo, error) {
	id := oid.ID()
	if !oid.IsPsu() || id < Psu1ID || id > Psu2ID {
		return nil, onlp.Invalid(oid)
	}
	pi := &onlp.PsuInfo{
		Hdr: onlp.Hdr{ID: oid, Description: fmt.Sprint("PSU-", id)},
	}
	present, err := psuPresent(id)
	if err != nil || !present {
		return pi, err
	}
	pi.Status |= onlp.PsuStatusPresent
	good, err := sysfs.ReadInt(HwmonNode(id,
		fmt.Sprintf("psu%d_power_good", id)))
	if err != nil || good == 0 {
		pi.Status |= onlp.PsuStatusUnplugged
		return pi, nil
	}
	typ, model, err := PsuTypeGet(id)
	if err != nil {
		pi.Status |= onlp.PsuStatusFailed
		return pi, nil
	}
	pi.Model = model
	switch {
	case typ.IsAC():
		pi.Caps |= onlp.PsuCapsAC
	case typ.IsDC():
		pi.Caps |= onlp.PsuCapsDC48
	}
	pi.Serial, _ = PsuSerialNumberGet(id)
	for _, x := range []struct {
		node string
		cap  onlp.PsuCaps
		v    *int
	}{
		{"psu_v_in", onlp.PsuCapsVin, &pi.MilliVin},
		{"psu_v_out", onlp.PsuCapsVout, &pi.MilliVout},
		{"psu_i_in", onlp.PsuCapsIin, &pi.MilliIin},
		{"psu_i_out", onlp.PsuCapsIout, &pi.MilliIout},
		{"psu_p_in", onlp.PsuCapsPin, &pi.MilliPin},
		{"psu_p_out", onlp.PsuCapsPout, &pi.MilliPout},
	} {
		if v, err := PmbusInfoGet(id, x.node); err == nil {
			*x.v = v
			pi.Caps |= x.cap
		}
	}
	return pi, nil
}
