// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package cpld provides shared access to the board CPLDs by I2C address.
// Other drivers read CPLD status registers through Read rather than a
// client of their own.
package cpld

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/smbus"
)

var ErrNotFound = errors.New("cpld not found")

var cplds struct {
	sync.Mutex
	byAddr map[int]smbus.Device
}

// Add the CPLD at the given I2C address.
func Add(addr int, dev smbus.Device) {
	cplds.Lock()
	defer cplds.Unlock()
	if cplds.byAddr == nil {
		cplds.byAddr = make(map[int]smbus.Device)
	}
	cplds.byAddr[addr] = dev
}

func Remove(addr int) {
	cplds.Lock()
	defer cplds.Unlock()
	delete(cplds.byAddr, addr)
}

// Read returns the register of the CPLD at addr.
func Read(addr int, reg uint8) (uint8, error) {
	cplds.Lock()
	dev, found := cplds.byAddr[addr]
	cplds.Unlock()
	if !found {
		return 0, errors.Wrapf(ErrNotFound, "0x%02x", addr)
	}
	return dev.ReadByteData(reg)
}

func Write(addr int, reg, v uint8) error {
	cplds.Lock()
	dev, found := cplds.byAddr[addr]
	cplds.Unlock()
	if !found {
		return errors.Wrapf(ErrNotFound, "0x%02x", addr)
	}
	return dev.WriteByteData(reg, v)
}

// PsuPresent decodes the active low present bit of PSU index in the
// status register.
func PsuPresent(index int, status uint8) bool {
	return status&(1<<uint(index)) == 0
}

// PsuPowerGood decodes the power good bit of PSU index, 4 bits above the
// present bit.
func PsuPowerGood(index int, status uint8) bool {
	return status&(1<<uint(index+4)) != 0
}
