// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onie

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/goes-onlp/platform"
	"github.com/platinasystems/parms"
)

const Name = "onie"

var Stdout io.Writer = os.Stdout

type Command struct{}

func (Command) String() string { return Name }

func (Command) Usage() string {
	return Name + " [-i2c BUS-ADDR] [FILE]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print the ONIE system EEPROM",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the TLVs of the ONIE system EEPROM FILE, default
	/sys/bus/i2c/devices/0-0056/eeprom, or that at the I2C bus address,
	e.g.

		onie -i2c 0-0x56`,
	}
}

func (Command) Main(args ...string) error {
	parm, args := parms.New(args, "-i2c")
	var (
		info *onie.Info
		err  error
	)
	switch {
	case len(args) > 1:
		return fmt.Errorf("%v: unexpected", args[1:])
	case len(parm.ByName["-i2c"]) > 0:
		if len(args) > 0 {
			return fmt.Errorf("%v: unexpected", args)
		}
		var bus, addr int
		_, err = fmt.Sscanf(parm.ByName["-i2c"], "%d-%v", &bus, &addr)
		if err != nil {
			return fmt.Errorf("%s: invalid BUS-ADDR",
				parm.ByName["-i2c"])
		}
		info, err = onie.FromI2c(bus, addr)
	case len(args) == 1:
		info, err = onie.FromFile(args[0])
	default:
		info, err = onie.FromFile(platform.OnieEeprom)
	}
	if err != nil {
		return err
	}
	_, err = info.WriteTo(Stdout)
	return err
}
