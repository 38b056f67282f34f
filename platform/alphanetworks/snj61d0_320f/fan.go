// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package snj61d0_320f

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
)

// DutyCycleNode is the percentage of every chassis fan.
const DutyCycleNode = "fan_duty_cycle_percentage"

const (
	chassisFanCaps = onlp.FanCapsSetPercentage | onlp.FanCapsGetRPM |
		onlp.FanCapsGetPercentage
	psuFanCaps = onlp.FanCapsSetPercentage | onlp.FanCapsGetRPM
)

func (*Platform) FanOIDs() []onlp.OID {
	oids := make([]onlp.OID, 0, Fan1OnPsu2)
	for id := Fan1; id <= Fan1OnPsu2; id++ {
		oids = append(oids, onlp.FanOID(id))
	}
	return oids
}

func fanPsu(id int) int {
	if id == Fan1OnPsu2 {
		return Psu2ID
	}
	return Psu1ID
}

func (p *Platform) FanInfo(oid onlp.OID) (*onlp.FanInfo, error) {
	id := oid.ID()
	if !oid.IsFan() || id < Fan1 || id > Fan1OnPsu2 {
		return nil, onlp.Invalid(oid)
	}
	if id >= Fan1OnPsu1 {
		return psuFanInfo(oid, fanPsu(id))
	}
	fi := &onlp.FanInfo{
		Hdr:  onlp.Hdr{ID: oid, Description: fmt.Sprint("Chassis Fan ", id)},
		Caps: chassisFanCaps,
	}
	present, err := sysfs.ReadInt(FanNode(fmt.Sprintf("fan%d_present", id)))
	if err != nil {
		return fi, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	if present == 0 {
		return fi, nil
	}
	fi.Status |= onlp.FanStatusPresent
	if fault, err := sysfs.ReadInt(FanNode(fmt.Sprintf("fan%d_fault", id))); err == nil && fault != 0 {
		fi.Status |= onlp.FanStatusFailed
	}
	dir, err := sysfs.ReadInt(FanNode(fmt.Sprintf("fan%d_direction", id)))
	if err == nil {
		if dir == 0 {
			fi.Status |= onlp.FanStatusF2B
			fi.Caps |= onlp.FanCapsF2B
		} else {
			fi.Status |= onlp.FanStatusB2F
			fi.Caps |= onlp.FanCapsB2F
		}
	}
	if fi.RPM, err = sysfs.ReadInt(FanNode(fmt.Sprintf("fan%d_input", id))); err != nil {
		return fi, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	if fi.Percentage, err = sysfs.ReadInt(FanNode(DutyCycleNode)); err != nil {
		return fi, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	// a stopped, present fan has failed
	if fi.RPM == 0 {
		fi.Status |= onlp.FanStatusFailed
	}
	return fi, nil
}

func psuFanInfo(oid onlp.OID, psu int) (*onlp.FanInfo, error) {
	fi := &onlp.FanInfo{
		Hdr: onlp.Hdr{
			ID:          oid,
			Description: fmt.Sprintf("PSU-%d Fan 1", psu),
			Parent:      onlp.PsuOID(psu),
		},
		Caps: psuFanCaps,
	}
	present, err := psuPresent(psu)
	if err != nil || !present {
		return fi, err
	}
	fi.Status |= onlp.FanStatusPresent
	if typ, _, err := PsuTypeGet(psu); err == nil && typ != PsuTypeUnknown {
		if typ.IsF2B() {
			fi.Status |= onlp.FanStatusF2B
		} else {
			fi.Status |= onlp.FanStatusB2F
		}
	}
	if fi.RPM, err = PmbusInfoGet(psu, "psu_fan1_speed_rpm"); err != nil {
		return fi, err
	}
	if fi.RPM == 0 {
		fi.Status |= onlp.FanStatusFailed
	}
	return fi, nil
}

// SetFanPercentage sets the duty cycle of all chassis fans, or that of a
// PSU fan.
func (*Platform) SetFanPercentage(oid onlp.OID, pct int) error {
	id := oid.ID()
	if !oid.IsFan() || id < Fan1 || id > Fan1OnPsu2 {
		return onlp.Invalid(oid)
	}
	if pct < 0 || pct > 100 {
		return errors.Wrapf(onlp.ErrParam, "%s: %d%%", oid, pct)
	}
	DiagPrint(oid, " ", pct, "%")
	if id >= Fan1OnPsu1 {
		return PmbusInfoSet(fanPsu(id), "psu_fan1_duty_cycle_percentage",
			pct)
	}
	if err := sysfs.WriteInt(FanNode(DutyCycleNode), pct); err != nil {
		return errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	return nil
}
