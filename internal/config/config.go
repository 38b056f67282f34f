// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package config loads the optional site configuration of the platform
// daemons, e.g.
//
//	platform: accton-as7315-27xb
//	poll: 5s
//	cplds:
//	  - {bus: 0, addr: 0x64}
//	devices:
//	  - {name: as7315_27xb_psu1, bus: 9, addr: 0x50, byteaccess: true}
//	  - {name: as7315_27xb_psu2, bus: 10, addr: 0x51, byteaccess: true}
//	thresholds:
//	  LM75_1 U61: {warning: 70000, error: 75000, shutdown: 80000}
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFile  = "/etc/goes/onlp.yaml"
	DefaultHwmon = "/run/goes/hwmon"
	DefaultPoll  = 5 * time.Second
)

// Fs is replaced by an afero.MemMapFs in tests.
var Fs = afero.NewOsFs()

type Device struct {
	Name       string `yaml:"name"`
	Bus        int    `yaml:"bus"`
	Addr       int    `yaml:"addr"`
	ByteAccess bool   `yaml:"byteaccess"`
}

type Cpld struct {
	Bus  int `yaml:"bus"`
	Addr int `yaml:"addr"`
}

// Thresholds are in milli-celsius.
type Thresholds struct {
	Warning  int `yaml:"warning"`
	Error    int `yaml:"error"`
	Shutdown int `yaml:"shutdown"`
}

type Config struct {
	// Platform overrides the ONIE PlatformName.
	Platform string `yaml:"platform"`
	// Root prefixes the /sys paths.
	Root string        `yaml:"root"`
	Poll time.Duration `yaml:"poll"`
	// Hwmon is the export directory of bound device attributes.
	Hwmon   string   `yaml:"hwmon"`
	Devices []Device `yaml:"devices"`
	Cplds   []Cpld   `yaml:"cplds"`
	// Thresholds override the board's by sensor description.
	Thresholds map[string]Thresholds `yaml:"thresholds"`
	// Metrics is the listen address of the prometheus handler; none if
	// empty.
	Metrics string `yaml:"metrics"`
	// Eeprom, if set, is read through I2C rather than sysfs.
	Eeprom *Cpld `yaml:"eeprom"`
}

func Default() *Config {
	return &Config{
		Poll:  DefaultPoll,
		Hwmon: DefaultHwmon,
	}
}

// Load the named file. A missing DefaultFile isn't an error.
func Load(fn string) (*Config, error) {
	if len(fn) == 0 {
		fn = DefaultFile
	}
	b, err := afero.ReadFile(Fs, fn)
	if err != nil {
		if fn == DefaultFile && os.IsNotExist(errors.Cause(err)) {
			return Default(), nil
		}
		return nil, errors.Wrap(err, fn)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, errors.Wrap(err, fn)
	}
	return c, nil
}

func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate the bus addresses and intervals.
func (c *Config) Validate() error {
	if c.Poll <= 0 {
		return errors.Errorf("poll: %v: must be positive", c.Poll)
	}
	for _, d := range c.Devices {
		if len(d.Name) == 0 {
			return errors.Errorf("device %d-%04x: missing name",
				d.Bus, d.Addr)
		}
		if err := validAddr(d.Bus, d.Addr); err != nil {
			return errors.Wrap(err, d.Name)
		}
	}
	for _, x := range c.Cplds {
		if err := validAddr(x.Bus, x.Addr); err != nil {
			return errors.Wrap(err, "cpld")
		}
	}
	if c.Eeprom != nil {
		if err := validAddr(c.Eeprom.Bus, c.Eeprom.Addr); err != nil {
			return errors.Wrap(err, "eeprom")
		}
	}
	for name, t := range c.Thresholds {
		if t.Warning > t.Error || t.Error > t.Shutdown {
			return errors.Errorf("%s: thresholds out of order", name)
		}
	}
	return nil
}

func validAddr(bus, addr int) error {
	if bus < 0 {
		return errors.Errorf("bus %d: invalid", bus)
	}
	// 7-bit addresses less those reserved
	if addr < 0x03 || addr > 0x77 {
		return errors.Errorf("addr 0x%02x: invalid", addr)
	}
	return nil
}
