// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package platform links every board adapter and opens the one named by
// the command line, site configuration, or ONIE EEPROM, in that order.
package platform

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/onlp"

	_ "github.com/platinasystems/goes-onlp/platform/accton/as7315_27xb"
	_ "github.com/platinasystems/goes-onlp/platform/accton/as9926_24db"
	_ "github.com/platinasystems/goes-onlp/platform/alphanetworks/snj61d0_320f"
)

// OnieEeprom is the default system EEPROM.
const OnieEeprom = "/sys/bus/i2c/devices/0-0056/eeprom"

// ReadOnie is replaced in tests.
var ReadOnie = func(c *config.Config) (*onie.Info, error) {
	if c.Eeprom != nil {
		return onie.FromI2c(c.Eeprom.Bus, c.Eeprom.Addr)
	}
	return onie.FromFile(OnieEeprom)
}

var onieName = regexp.MustCompile(`^(x86_64-|arm64-|powerpc-)?(.*?)(-r[0-9]+)?$`)

// Normalize an ONIE platform name, e.g.
//
//	x86_64-accton_as7315_27xb-r0
//
// is
//
//	accton-as7315-27xb
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = onieName.ReplaceAllString(name, "$2")
	return strings.Replace(name, "_", "-", -1)
}

// Open the configured and initialized board adapter.
func Open(c *config.Config, name string) (onlp.Platform, error) {
	if len(name) == 0 {
		name = c.Platform
	}
	if len(name) == 0 {
		info, err := ReadOnie(c)
		if err != nil {
			return nil, errors.Wrap(err, "platform name")
		}
		name = info.Get(onie.PlatformName)
		if len(name) == 0 {
			return nil, errors.Wrap(onlp.ErrMissing,
				"onie platform name")
		}
	}
	p, err := onlp.New(Normalize(name))
	if err != nil {
		return nil, err
	}
	if method, found := p.(onlp.Configurer); found {
		if err = method.Configure(c); err != nil {
			return nil, errors.Wrap(err, p.Name())
		}
	}
	if err = p.Init(); err != nil {
		return nil, errors.Wrap(err, p.Name())
	}
	return p, nil
}
