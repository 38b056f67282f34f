// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package smbus provides register access to the devices of a Linux I2C
// adapter through the /dev/i2c-X SMBus ioctls.
package smbus

import (
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/platinasystems/i2c"
)

// Device is a register addressed bus slave.
type Device interface {
	ReadByteData(reg uint8) (uint8, error)
	ReadWordData(reg uint8) (uint16, error)
	// ReadBlock returns n bytes of consecutive registers.
	ReadBlock(reg uint8, n int) ([]byte, error)
	WriteByteData(reg, v uint8) error
}

// ErrShortRead is the cause of a block read that returned fewer than the
// requested bytes.
var ErrShortRead = errors.New("short read")

// All transactions of all clients are serialized.
var mutex sync.Mutex

type Client struct {
	Bus  int
	Addr int

	// ByteAccess reads blocks as a sequence of byte reads. Some adapters
	// fail I2C block transfers.
	ByteAccess bool

	// Delay between transactions; some EEPROMs need a pause after
	// the address write.
	Delay time.Duration
}

func (c *Client) String() string {
	return fmt.Sprintf("%d-%04x", c.Bus, c.Addr)
}

func (c *Client) do(rw i2c.RW, reg uint8, size i2c.SMBusSize,
	data *i2c.SMBusData) error {
	mutex.Lock()
	defer mutex.Unlock()
	err := i2c.Do(c.Bus, c.Addr, func(bus *i2c.Bus) error {
		return bus.Do(rw, reg, size, data)
	})
	if c.Delay > 0 {
		time.Sleep(c.Delay)
	}
	return errors.Wrapf(err, "%s reg 0x%02x", c, reg)
}

func (c *Client) ReadByteData(reg uint8) (uint8, error) {
	var data i2c.SMBusData
	err := c.do(i2c.Read, reg, i2c.ByteData, &data)
	return data[0], err
}

func (c *Client) ReadWordData(reg uint8) (uint16, error) {
	var data i2c.SMBusData
	err := c.do(i2c.Read, reg, i2c.WordData, &data)
	return uint16(data[0]) | uint16(data[1])<<8, err
}

func (c *Client) ReadBlock(reg uint8, n int) ([]byte, error) {
	if c.ByteAccess {
		buf := make([]byte, n)
		for i := range buf {
			b, err := c.ReadByteData(reg + uint8(i))
			if err != nil {
				return nil, err
			}
			buf[i] = b
		}
		return buf, nil
	}
	if n > i2c.BlockMax {
		return nil, errors.Errorf("%s: block of %d exceeds %d",
			c, n, i2c.BlockMax)
	}
	var data i2c.SMBusData
	data[0] = uint8(n)
	if err := c.do(i2c.Read, reg, i2c.I2CBlockData, &data); err != nil {
		return nil, err
	}
	if int(data[0]) != n {
		return nil, errors.Wrapf(ErrShortRead, "%s reg 0x%02x: %d of %d",
			c, reg, data[0], n)
	}
	buf := make([]byte, n)
	copy(buf, data[1:1+n])
	return buf, nil
}

func (c *Client) WriteByteData(reg, v uint8) error {
	var data i2c.SMBusData
	data[0] = v
	return c.do(i2c.Write, reg, i2c.ByteData, &data)
}
