// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package as7315_27xb provides the PSU driver and platform of the Accton
// AS7315-27XB.
//
// The PSU present and power good bits are in a CPLD status register; the
// model name and serial number are in each PSU's EEPROM.
package as7315_27xb

import (
	"fmt"
	"syscall"

	"github.com/platinasystems/goes-onlp/internal/cpld"
	"github.com/platinasystems/goes-onlp/internal/hwmon"
	"github.com/platinasystems/goes-onlp/internal/psu"
	"github.com/platinasystems/goes-onlp/internal/smbus"
)

const (
	DriverName = "as7315_27xb_psu"

	StatusAddr = 0x64
	StatusReg  = 0x2
)

// ErrNoDevice is the error of a model name or serial number Show of an
// unidentified PSU.
var ErrNoDevice error = syscall.ENXIO

type driver struct{}

func init() { hwmon.Register(driver{}) }

func (driver) Name() string { return DriverName }

func (driver) IDs() []hwmon.ID {
	return []hwmon.ID{
		{Name: "as7315_27xb_psu1", Data: 0},
		{Name: "as7315_27xb_psu2", Data: 1},
	}
}

func (driver) Probe(c *hwmon.Client, id hwmon.ID) (hwmon.Device, error) {
	if c.Dev == nil {
		return nil, syscall.EIO
	}
	// Block reads of these EEPROMs are unreliable.
	if sc, ok := c.Dev.(*smbus.Client); ok {
		sc.ByteAccess = true
	}
	return &Psu{
		Client: c,
		Index:  id.Data,
		Cache:  hwmon.Cache{Interval: hwmon.PsuInterval},
	}, nil
}

// Psu is a probed power supply.
type Psu struct {
	*hwmon.Client
	Index int
	hwmon.Cache

	status uint8
}

func (p *Psu) Attrs() []hwmon.Attr {
	return []hwmon.Attr{
		{Name: "psu_index", Show: p.showIndex},
		{Name: "psu_present", Show: func() (string, error) {
			return p.showStatus(cpld.PsuPresent)
		}},
		{Name: "psu_model_name", Show: func() (string, error) {
			return p.showIdentity(false)
		}},
		{Name: "psu_serial", Show: func() (string, error) {
			return p.showIdentity(true)
		}},
		{Name: "psu_power_good", Show: func() (string, error) {
			return p.showStatus(cpld.PsuPowerGood)
		}},
	}
}

func (p *Psu) Remove() error {
	p.Invalidate()
	return nil
}

func (p *Psu) update() error {
	v, err := cpld.Read(StatusAddr, StatusReg)
	if err != nil {
		return err
	}
	p.status = v
	return nil
}

func (p *Psu) showIndex() (string, error) {
	return fmt.Sprintln(p.Index), nil
}

func (p *Psu) showStatus(bit func(int, uint8) bool) (string, error) {
	return p.Show(p.update, func(valid bool) (string, error) {
		if !valid {
			return "0\n", nil
		}
		if bit(p.Index, p.status) {
			return "1\n", nil
		}
		return "0\n", nil
	})
}

// showIdentity classifies the PSU on every call since it may have been
// swapped within the status interval.
func (p *Psu) showIdentity(serial bool) (string, error) {
	return p.Show(p.update, func(valid bool) (string, error) {
		if !valid || !cpld.PsuPresent(p.Index, p.status) {
			return "", nil
		}
		id, err := psu.Accton.Identify(p.Dev)
		if err != nil {
			return "", ErrNoDevice
		}
		if !serial {
			return id.ModelName + "\n", nil
		}
		sn, err := id.ReadSerial(p.Dev)
		if err != nil {
			return "", ErrNoDevice
		}
		return sn + "\n", nil
	})
}
