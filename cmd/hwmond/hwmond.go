// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package hwmond binds the configured board CPLDs and I2C devices to their
// drivers and exports the device attributes as files.
package hwmond

import (
	"fmt"
	"time"

	"github.com/jpillora/backoff"
	"github.com/platinasystems/goes-onlp/cmd"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/cpld"
	"github.com/platinasystems/goes-onlp/internal/hwmon"
	"github.com/platinasystems/goes-onlp/internal/smbus"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"

	// device drivers
	_ "github.com/platinasystems/goes-onlp/platform"
)

const Name = "hwmond"

// Hash of the published attributes.
const Hash = "hwmon"

var (
	// NewClient returns the bus device at the address.
	NewClient = func(bus, addr int, byteAccess bool) smbus.Device {
		return &smbus.Client{
			Bus:        bus,
			Addr:       addr,
			ByteAccess: byteAccess,
		}
	}
)

type printer interface {
	Print(...interface{}) (int, error)
}

type Command struct {
	stop  chan struct{}
	cfg   *config.Config
	bound []config.Device
	last  string
	pub   printer
	lasts map[string]string
}

func (*Command) String() string { return Name }

func (*Command) Usage() string {
	return Name + " [-config FILE]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "hardware monitor daemon",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Bind the CPLDs and devices of the site configuration then, every
	poll interval, write each device attribute to

		HWMON/BUS-ADDR/ATTR

	where HWMON is the configured directory, default /run/goes/hwmon.
	An attribute that can't be read has no file.

	If redis is running, the changed attributes are also published to
	the "hwmon" hash, e.g.

		hget hwmon 9-0050.psu_model_name`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(args ...string) error {
	parm, args := parms.New(args, "-config")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}

	cfg, err := config.Load(parm.ByName["-config"])
	if err != nil {
		return err
	}
	if err = c.bind(cfg); err != nil {
		c.unbind()
		return err
	}
	defer c.unbind()

	if err = redis.IsReady(); err == nil {
		pub, err := publisher.New()
		if err != nil {
			return err
		}
		defer pub.Close()
		c.pub = pub
	} else {
		log.Print("daemon", "info", Name, ": unpublished, ", err)
	}

	c.stop = make(chan struct{})
	holdOff := &backoff.Backoff{
		Min:    cfg.Poll,
		Max:    12 * cfg.Poll,
		Factor: 2,
	}
	var until time.Time
	c.export()
	t := time.NewTicker(cfg.Poll)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return nil
		case now := <-t.C:
			if now.Before(until) {
				break
			}
			if err = c.export(); err != nil {
				until = now.Add(holdOff.Duration())
			} else {
				holdOff.Reset()
			}
		}
	}
}

func (c *Command) Close() error {
	close(c.stop)
	return nil
}

func (c *Command) bind(cfg *config.Config) error {
	c.cfg = cfg
	for _, x := range cfg.Cplds {
		cpld.Add(x.Addr, NewClient(x.Bus, x.Addr, false))
	}
	for _, d := range cfg.Devices {
		_, err := hwmon.NewDevice(d.Name, d.Bus, d.Addr,
			NewClient(d.Bus, d.Addr, d.ByteAccess))
		if err != nil {
			return err
		}
		c.bound = append(c.bound, d)
		log.Print("daemon", "info", Name, ": ", d.Name, " ",
			hwmon.DevName(d.Bus, d.Addr))
	}
	return nil
}

func (c *Command) unbind() {
	for _, d := range c.bound {
		if err := hwmon.DeleteDevice(d.Bus, d.Addr); err != nil {
			log.Print("daemon", "err", Name, ": ", err)
		}
		hwmon.Unexport(sysfs.Fs, c.cfg.Hwmon, d.Bus, d.Addr)
	}
	c.bound = nil
	for _, x := range c.cfg.Cplds {
		cpld.Remove(x.Addr)
	}
}

func (c *Command) publish(k, v string) {
	if c.pub == nil {
		return
	}
	if c.lasts == nil {
		c.lasts = make(map[string]string)
	}
	if last, found := c.lasts[k]; found && last == v {
		return
	}
	if _, err := c.pub.Print(Hash, ": ", k, ": ", v); err == nil {
		c.lasts[k] = v
	}
}

// export logs show errors only as they change; it returns an error if it
// couldn't write the directory.
func (c *Command) export() error {
	seen := make(map[string]bool)
	err := hwmon.ExportFunc(sysfs.Fs, c.cfg.Hwmon, func(k, v string) {
		seen[k] = true
		c.publish(k, v)
	})
	if err == nil || hwmon.IsShowError(err) {
		for k := range c.lasts {
			if !seen[k] {
				c.pub.Print(Hash, ": delete: ", k)
				delete(c.lasts, k)
			}
		}
	}
	var s string
	if err != nil {
		s = err.Error()
	}
	if s != c.last {
		if len(s) > 0 {
			log.Print("daemon", "err", Name, ": ", s)
		} else {
			log.Print("daemon", "info", Name, ": recovered")
		}
		c.last = s
	}
	if err != nil && !hwmon.IsShowError(err) {
		return err
	}
	return nil
}
