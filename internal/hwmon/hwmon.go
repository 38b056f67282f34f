// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package hwmon binds I2C client drivers to bus devices and exports each
// device's attributes as files, e.g.
//
//	/run/goes/hwmon/9-0058/psu_present
//
// A driver lists the device names it supports along with driver data, such
// as a PSU index. NewDevice probes the driver of the named device and
// DeleteDevice removes it.
package hwmon

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/smbus"
)

var (
	ErrNoDriver = errors.New("no driver")
	ErrExists   = errors.New("device exists")
	ErrNotFound = errors.New("no such device")
)

// ID is a device table entry.
type ID struct {
	Name string
	Data int
}

type Client struct {
	Name string
	Bus  int
	Addr int
	Dev  smbus.Device
}

func (c *Client) String() string { return DevName(c.Bus, c.Addr) }

// DevName is the directory name of the given bus device.
func DevName(bus, addr int) string { return fmt.Sprintf("%d-%04x", bus, addr) }

// Attr shows a device attribute. A failed Show is reported as an error
// reading the attribute; an empty string is a valid, empty, attribute.
type Attr struct {
	Name string
	Show func() (string, error)
}

type Device interface {
	Attrs() []Attr
	Remove() error
}

type Driver interface {
	Name() string
	IDs() []ID
	Probe(c *Client, id ID) (Device, error)
}

// Bound is a probed device and its driver.
type Bound struct {
	*Client
	Driver Driver
	Device Device
}

var registry struct {
	sync.Mutex
	drivers []Driver
	devices map[string]*Bound
}

// Register a driver. A later registration of the same name replaces the
// driver.
func Register(d Driver) {
	registry.Lock()
	defer registry.Unlock()
	for i, x := range registry.drivers {
		if x.Name() == d.Name() {
			registry.drivers[i] = d
			return
		}
	}
	registry.drivers = append(registry.drivers, d)
}

func lookup(name string) (Driver, ID, bool) {
	for _, d := range registry.drivers {
		for _, id := range d.IDs() {
			if id.Name == name {
				return d, id, true
			}
		}
	}
	return nil, ID{}, false
}

// NewDevice probes the driver of the named device at the bus address.
func NewDevice(name string, bus, addr int, dev smbus.Device) (*Bound, error) {
	registry.Lock()
	defer registry.Unlock()
	k := DevName(bus, addr)
	if _, found := registry.devices[k]; found {
		return nil, errors.Wrap(ErrExists, k)
	}
	d, id, found := lookup(name)
	if !found {
		return nil, errors.Wrap(ErrNoDriver, name)
	}
	c := &Client{
		Name: name,
		Bus:  bus,
		Addr: addr,
		Dev:  dev,
	}
	v, err := d.Probe(c, id)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: probe %s", k, name)
	}
	b := &Bound{c, d, v}
	if registry.devices == nil {
		registry.devices = make(map[string]*Bound)
	}
	registry.devices[k] = b
	return b, nil
}

// DeleteDevice removes the device at the bus address.
func DeleteDevice(bus, addr int) error {
	registry.Lock()
	defer registry.Unlock()
	k := DevName(bus, addr)
	b, found := registry.devices[k]
	if !found {
		return errors.Wrap(ErrNotFound, k)
	}
	delete(registry.devices, k)
	return b.Device.Remove()
}

// Devices returns the bound devices sorted by name.
func Devices() []*Bound {
	registry.Lock()
	defer registry.Unlock()
	bs := make([]*Bound, 0, len(registry.devices))
	for _, b := range registry.devices {
		bs = append(bs, b)
	}
	sort.Slice(bs, func(i, j int) bool {
		if bs[i].Bus != bs[j].Bus {
			return bs[i].Bus < bs[j].Bus
		}
		return bs[i].Addr < bs[j].Addr
	})
	return bs
}

// Attr returns the named attribute of the device.
func (b *Bound) Attr(name string) (Attr, bool) {
	for _, a := range b.Device.Attrs() {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}
