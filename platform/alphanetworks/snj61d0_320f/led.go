// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package snj61d0_320f

import (
	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
)

// Each LED node holds the index of the LED's mode in its table.
var leds = [...]struct {
	name  string
	node  string
	modes []onlp.LedMode
}{
	LedSystem: {"System LED", "led_sys", []onlp.LedMode{
		onlp.LedModeOff,
		onlp.LedModeGreen,
		onlp.LedModeGreenBlinking,
		onlp.LedModeOrange,
		onlp.LedModeOrangeBlinking,
	}},
	LedPower: {"Power LED", "led_pwr", []onlp.LedMode{
		onlp.LedModeOff,
		onlp.LedModeGreen,
		onlp.LedModeOrange,
	}},
	LedFan: {"Fan LED", "led_fan", []onlp.LedMode{
		onlp.LedModeOff,
		onlp.LedModeGreen,
		onlp.LedModeOrange,
	}},
	LedLoc: {"Locator LED", "led_loc", []onlp.LedMode{
		onlp.LedModeOff,
		onlp.LedModeBlue,
		onlp.LedModeBlinking,
	}},
}

func (*Platform) LedOIDs() []onlp.OID {
	oids := make([]onlp.OID, 0, ChassisLedCount)
	for id := LedSystem; id <= LedLoc; id++ {
		oids = append(oids, onlp.LedOID(id))
	}
	return oids
}

func validLed(oid onlp.OID) error {
	if id := oid.ID(); !oid.IsLed() || id < LedSystem || id > LedLoc {
		return onlp.Invalid(oid)
	}
	return nil
}

func (*Platform) LedInfo(oid onlp.OID) (*onlp.LedInfo, error) {
	if err := validLed(oid); err != nil {
		return nil, err
	}
	led := &leds[oid.ID()]
	li := &onlp.LedInfo{
		Hdr:    onlp.Hdr{ID: oid, Description: led.name},
		Status: onlp.LedStatusPresent,
	}
	for _, m := range led.modes {
		li.Caps |= onlp.LedCap(m)
	}
	i, err := sysfs.ReadInt(FanNode(led.node))
	if err != nil {
		return li, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	if i < 0 || i >= len(led.modes) {
		li.Status |= onlp.LedStatusFailed
		return li, nil
	}
	li.Mode = led.modes[i]
	if li.Mode != onlp.LedModeOff {
		li.Status |= onlp.LedStatusOn
	}
	return li, nil
}

func (*Platform) SetLedMode(oid onlp.OID, m onlp.LedMode) error {
	if err := validLed(oid); err != nil {
		return err
	}
	led := &leds[oid.ID()]
	for i, x := range led.modes {
		if x == m {
			if err := sysfs.WriteInt(FanNode(led.node), i); err != nil {
				return errors.Wrapf(onlp.ErrInternal, "%s: %v",
					oid, err)
			}
			return nil
		}
	}
	return errors.Wrapf(onlp.ErrUnsupported, "%s: %s", oid, m)
}
