// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package psu identifies the installed power supply model from its EEPROM
// and extracts the model specific serial number.
//
// A Table lists the known models in probe order, each with the location of
// its model name. Identify reads each location in turn and selects the
// first model whose name matches.
package psu

import (
	"bytes"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/smbus"
)

// ErrNoData is the cause of an unrecognized model or a model without a
// serial number field.
var ErrNoData = errors.New("no data")

type Input int

const (
	AC110V Input = iota
	DC48V
)

func (i Input) String() string {
	if i == DC48V {
		return "DC48V"
	}
	return "AC110V"
}

type Airflow int

const (
	F2B Airflow = iota
	B2F
)

func (a Airflow) String() string {
	if a == B2F {
		return "back->front"
	}
	return "front->back"
}

// Field is an EEPROM location.
type Field struct {
	Offset uint8
	Length int
}

type Model struct {
	Type
	Name string
	// Model name location.
	Field
	// SkipByte8 drops the meaningless byte 8 of the model name field
	// before comparison.
	SkipByte8 bool
	// Serial is nil for models without a serial number field.
	Serial  *Field
	Input   Input
	Airflow Airflow
}

type Table []Model

// Identity is the result of a successful Identify.
type Identity struct {
	*Model
	// ModelName is the name as read, after quirk processing.
	ModelName string
}

// Identify probes dev for each model of the table. A read failure aborts
// the probe; an exhausted table results in ErrNoData.
func (t Table) Identify(dev smbus.Device) (*Identity, error) {
	for i := range t {
		m := &t[i]
		buf, err := dev.ReadBlock(m.Offset, m.Length)
		if err != nil {
			return nil, errors.Wrapf(err, "model name at 0x%02x",
				m.Offset)
		}
		name := m.normalize(buf)
		if strncmp(name, m.Name, m.Length) {
			return &Identity{Model: m, ModelName: name}, nil
		}
	}
	return nil, ErrNoData
}

// Lookup returns the model of the given, already normalized, name.
func (t Table) Lookup(name string) (*Model, error) {
	for i := range t {
		if strncmp(name, t[i].Name, t[i].Length) {
			return &t[i], nil
		}
	}
	return nil, errors.Wrap(ErrNoData, name)
}

func (m *Model) normalize(buf []byte) string {
	if m.SkipByte8 && len(buf) > 10 {
		buf[8] = buf[9]
		buf[9] = buf[10]
		buf = buf[:10]
	}
	return cstring(buf)
}

// ReadSerial returns the serial number of the identified model.
func (m *Model) ReadSerial(dev smbus.Device) (string, error) {
	if m.Serial == nil {
		return "", errors.Wrap(ErrNoData, m.Name)
	}
	buf, err := dev.ReadBlock(m.Serial.Offset, m.Serial.Length)
	if err != nil {
		return "", errors.Wrapf(err, "serial at 0x%02x",
			m.Serial.Offset)
	}
	return cstring(buf), nil
}

// strncmp reports whether the NUL terminated prefixes of a and b, up to
// n bytes, are equal.
func strncmp(a, b string, n int) bool {
	return prefix(a, n) == prefix(b, n)
}

func prefix(s string, n int) string {
	if i := bytes.IndexByte([]byte(s), 0); i >= 0 {
		s = s[:i]
	}
	if len(s) > n {
		s = s[:n]
	}
	return s
}

func cstring(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
