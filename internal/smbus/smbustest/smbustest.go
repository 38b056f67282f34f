// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package smbustest provides an in-memory register map that satisfies
// smbus.Device.
package smbustest

import (
	"sync"
	"syscall"

	"github.com/pkg/errors"
)

// Map is a 256 register device. Registers listed in Fail return Err.
type Map struct {
	sync.Mutex
	Regs [256]byte
	Fail map[uint8]bool
	// Err defaults to EIO.
	Err error
	// Reads counts register reads.
	Reads int
}

func New() *Map { return &Map{Fail: make(map[uint8]bool)} }

// Load copies b to the registers at reg.
func (m *Map) Load(reg uint8, b []byte) *Map {
	m.Lock()
	defer m.Unlock()
	copy(m.Regs[reg:], b)
	return m
}

func (m *Map) err(reg uint8) error {
	if !m.Fail[reg] {
		return nil
	}
	err := m.Err
	if err == nil {
		err = syscall.EIO
	}
	return errors.Wrapf(err, "reg 0x%02x", reg)
}

func (m *Map) ReadByteData(reg uint8) (uint8, error) {
	m.Lock()
	defer m.Unlock()
	m.Reads++
	if err := m.err(reg); err != nil {
		return 0, err
	}
	return m.Regs[reg], nil
}

func (m *Map) ReadWordData(reg uint8) (uint16, error) {
	m.Lock()
	defer m.Unlock()
	m.Reads++
	if err := m.err(reg); err != nil {
		return 0, err
	}
	return uint16(m.Regs[reg]) | uint16(m.Regs[reg+1])<<8, nil
}

func (m *Map) ReadBlock(reg uint8, n int) ([]byte, error) {
	m.Lock()
	defer m.Unlock()
	buf := make([]byte, n)
	for i := range buf {
		r := reg + uint8(i)
		m.Reads++
		if err := m.err(r); err != nil {
			return nil, err
		}
		buf[i] = m.Regs[r]
	}
	return buf, nil
}

func (m *Map) WriteByteData(reg, v uint8) error {
	m.Lock()
	defer m.Unlock()
	if err := m.err(reg); err != nil {
		return err
	}
	m.Regs[reg] = v
	return nil
}
