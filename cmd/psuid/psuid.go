// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package psuid identifies an Accton power supply by its EEPROM and prints
// its PMBus telemetry.
package psuid

import (
	"fmt"
	"io"
	"os"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/goes-onlp/cmd"
	"github.com/platinasystems/goes-onlp/internal/pmbus"
	"github.com/platinasystems/goes-onlp/internal/psu"
	"github.com/platinasystems/goes-onlp/internal/smbus"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/parms"
)

const Name = "psuid"

var (
	Stdout io.Writer = os.Stdout

	// NewClient is replaced in tests.
	NewClient = func(bus, addr int, byteAccess bool) smbus.Device {
		return &smbus.Client{
			Bus:        bus,
			Addr:       addr,
			ByteAccess: byteAccess,
		}
	}
)

type Command struct{}

func (Command) String() string { return Name }

func (Command) Usage() string {
	return Name + " [-byte] [-pmbus ADDR] BUS-ADDR"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "identify a power supply",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the model, serial number, input, and airflow of the power
	supply with the EEPROM at BUS-ADDR, e.g.

		psuid 9-0x50

OPTIONS
	-byte	read the EEPROM a byte at a time
	-pmbus ADDR
		also print the telemetry of the PMBus controller at this
		address of the same bus`,
	}
}

func (Command) Kind() cmd.Kind { return cmd.DontFork }

func (Command) Main(args ...string) error {
	flag, args := flags.New(args, "-byte")
	parm, args := parms.New(args, "-pmbus")
	if len(args) != 1 {
		return fmt.Errorf("BUS-ADDR: missing")
	}
	var bus, addr int
	if _, err := fmt.Sscanf(args[0], "%d-%v", &bus, &addr); err != nil {
		return fmt.Errorf("%s: invalid BUS-ADDR", args[0])
	}
	id, err := psu.Accton.Identify(NewClient(bus, addr, flag.ByName["-byte"]))
	if err != nil {
		return err
	}
	fmt.Fprintln(Stdout, "model:", id.ModelName)
	if id.Serial != nil {
		sn, err := id.ReadSerial(NewClient(bus, addr,
			flag.ByName["-byte"]))
		if err != nil {
			return err
		}
		fmt.Fprintln(Stdout, "serial:", sn)
	}
	fmt.Fprintln(Stdout, "input:", id.Input)
	fmt.Fprintln(Stdout, "airflow:", id.Airflow)
	if s := parm.ByName["-pmbus"]; len(s) > 0 {
		var pm int
		if _, err = fmt.Sscan(s, &pm); err != nil {
			return fmt.Errorf("%s: invalid ADDR", s)
		}
		return telemetry(Stdout, NewClient(bus, pm, false))
	}
	return nil
}

func telemetry(w io.Writer, dev smbus.Device) error {
	mv, err := pmbus.Vout(dev)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "v_out.units.mV:", mv)
	for _, x := range []struct {
		name string
		reg  uint8
	}{
		{"v_in.units.mV", pmbus.ReadVin},
		{"i_in.units.mA", pmbus.ReadIin},
		{"i_out.units.mA", pmbus.ReadIout},
		{"p_in.units.mW", pmbus.ReadPin},
		{"p_out.units.mW", pmbus.ReadPout},
		{"temp1.units.mC", pmbus.ReadTemperature1},
		{"fan_speed.units.rpm", pmbus.ReadFanSpeed1},
	} {
		v, err := pmbus.ReadLinear11(dev, x.reg)
		if err != nil {
			return err
		}
		if x.reg == pmbus.ReadFanSpeed1 {
			v /= 1000
		}
		fmt.Fprintln(w, x.name+":", v)
	}
	return nil
}
