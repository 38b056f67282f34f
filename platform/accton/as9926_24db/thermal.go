// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package as9926_24db provides the platform of the Accton AS9926-24DB.
// Its sensors are read from the attribute files of the board's platform
// drivers.
package as9926_24db

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
)

const Name = "accton-as9926-24db"

const (
	ThermalCpuCore = 1 + iota
	Thermal1OnMainBoard
	Thermal2OnMainBoard
	Thermal3OnMainBoard
	Thermal4OnMainBoard
	Thermal5OnMainBoard
	Thermal6OnMainBoard
	Thermal7OnMainBoard
	Thermal8OnMainBoard
	Thermal9OnMainBoard
	Thermal1OnPsu1
	Thermal1OnPsu2

	NThermal = Thermal1OnPsu2
)

const (
	ThermalDir = "/sys/devices/platform/as9926_24db_thermal"
	PsuDir     = "/sys/devices/platform/as9926_24db_psu"
)

const boardCaps = onlp.ThermalCapsGetTemperature |
	onlp.ThermalCapsGetWarningThreshold |
	onlp.ThermalCapsGetErrorThreshold |
	onlp.ThermalCapsGetShutdownThreshold

var coretemp = []string{
	"/sys/devices/platform/coretemp.0*temp2_input",
	"/sys/devices/platform/coretemp.0*temp3_input",
	"/sys/devices/platform/coretemp.0*temp4_input",
	"/sys/devices/platform/coretemp.0*temp5_input",
}

type thermal struct {
	name   string
	parent onlp.OID
	caps   onlp.ThermalCaps
	onlp.Thresholds
	// files are maxed
	files []string
}

func board(name string, temp int, w, e, s int) thermal {
	return thermal{
		name:       name,
		caps:       boardCaps,
		Thresholds: onlp.Thresholds{Warning: w, Error: e, Shutdown: s},
		files:      []string{fmt.Sprintf("%s/temp%d_input", ThermalDir, temp)},
	}
}

func psuThermal(psu int) thermal {
	return thermal{
		name:       fmt.Sprintf("PSU-%d Thermal Sensor 1", psu),
		parent:     onlp.PsuOID(psu),
		caps:       onlp.ThermalCapsAll,
		Thresholds: onlp.DefaultThresholds,
		files:      []string{fmt.Sprintf("%s/psu%d_temp1_input", PsuDir, psu)},
	}
}

var thermals = [...]thermal{
	ThermalCpuCore: {
		name:       "CPU Core",
		caps:       boardCaps,
		Thresholds: onlp.Thresholds{Warning: 83000, Error: 93000, Shutdown: 103000},
		files:      coretemp,
	},
	Thermal1OnMainBoard: board("LM75_1 U61", 1, 71000, 76000, 81000),
	Thermal2OnMainBoard: board("LM75_2 U83", 2, 73000, 78000, 83000),
	Thermal3OnMainBoard: board("LM75_3 U3", 3, 78000, 83000, 88000),
	Thermal4OnMainBoard: board("LM75_Heater_CPU U20", 4, 66000, 71000, 76000),
	Thermal5OnMainBoard: board("LM75_5 U27", 5, 66000, 71000, 76000),
	Thermal6OnMainBoard: board("LM75_6 U80", 6, 56000, 61000, 66000),
	Thermal7OnMainBoard: board("LM75_7 U64", 7, 59000, 64000, 69000),
	Thermal8OnMainBoard: board("TMP432_1 U90", 8, 90000, 100000, 110000),
	Thermal9OnMainBoard: board("TMP432_2 U90", 9, 90000, 100000, 110000),
	Thermal1OnPsu1:      psuThermal(1),
	Thermal1OnPsu2:      psuThermal(2),
}

func init() {
	onlp.Register(Name, func() onlp.Platform { return new(Platform) })
}

type Platform struct {
	// overrides by sensor name
	thresholds map[string]onlp.Thresholds
}

func (*Platform) Name() string { return Name }

func (*Platform) Init() error { return nil }

func (p *Platform) Configure(c *config.Config) error {
	p.thresholds = make(map[string]onlp.Thresholds)
	for name, t := range c.Thresholds {
		p.thresholds[name] = onlp.Thresholds{
			Warning:  t.Warning,
			Error:    t.Error,
			Shutdown: t.Shutdown,
		}
	}
	return nil
}

func (*Platform) ThermalOIDs() []onlp.OID {
	oids := make([]onlp.OID, 0, NThermal)
	for id := 1; id <= NThermal; id++ {
		oids = append(oids, onlp.ThermalOID(id))
	}
	return oids
}

// ThermalInfo fills the static part of the info even if the sensor can't
// be read.
func (p *Platform) ThermalInfo(oid onlp.OID) (*onlp.ThermalInfo, error) {
	id := oid.ID()
	if !oid.IsThermal() || id < 1 || id > NThermal {
		return nil, onlp.Invalid(oid)
	}
	t := &thermals[id]
	ti := &onlp.ThermalInfo{
		Hdr: onlp.Hdr{
			ID:          oid,
			Description: t.name,
			Parent:      t.parent,
		},
		Status:     onlp.ThermalStatusPresent,
		Caps:       t.caps,
		Thresholds: t.Thresholds,
	}
	if x, found := p.thresholds[t.name]; found {
		ti.Thresholds = x
	}
	mC, err := sysfs.ReadIntMax(t.files...)
	if err != nil {
		return ti, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	ti.MilliCelsius = mC
	return ti, nil
}
