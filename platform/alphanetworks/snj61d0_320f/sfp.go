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

// Port N's EEPROM is on I2C bus SfpBusBase+N.
const SfpBusBase = 14

const sfpEepromSize = 256

func sfpNode(port int, node string) string {
	return fmt.Sprintf("/sys/bus/i2c/devices/%d-%04x/%s",
		SfpBusBase+port, SfpEepromAddr, node)
}

func (*Platform) SfpBitmap() []int {
	ports := make([]int, NumSfpPort)
	for i := range ports {
		ports[i] = SfpStartIndex + i
	}
	return ports
}

func validPort(port int) error {
	if !IsQsfpPort(port) && !IsSfpPort(port) {
		return errors.Wrapf(onlp.ErrInvalid, "port %d", port)
	}
	return nil
}

func (*Platform) SfpPresent(port int) (bool, error) {
	if err := validPort(port); err != nil {
		return false, err
	}
	v, err := sysfs.ReadInt(sfpNode(port, "sfp_is_present"))
	if err != nil {
		return false, errors.Wrapf(onlp.ErrInternal, "port %d: %v",
			port, err)
	}
	return v != 0, nil
}

func (p *Platform) SfpEeprom(port int) ([]byte, error) {
	present, err := p.SfpPresent(port)
	if err != nil {
		return nil, err
	}
	if !present {
		return nil, errors.Wrapf(onlp.ErrMissing, "port %d", port)
	}
	b, err := sysfs.ReadBinary(sfpNode(port, "sfp_eeprom"), sfpEepromSize)
	if err != nil {
		return nil, errors.Wrapf(onlp.ErrInternal, "port %d: %v",
			port, err)
	}
	return b, nil
}
