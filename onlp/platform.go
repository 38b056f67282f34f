// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onlp

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/onie"
)

// Platform is implemented by every board adapter along with whichever of
// Thermals, Fans, Psus, Leds, Sfps, and Syser the board supports.
//
// Info methods return ErrInvalid, possibly wrapped, for an OID of the
// wrong type or outside of the board's table. The static part of the
// record is filled in even if the object isn't present.
type Platform interface {
	Name() string
	Init() error
}

type Thermals interface {
	ThermalOIDs() []OID
	ThermalInfo(OID) (*ThermalInfo, error)
}

type Fans interface {
	FanOIDs() []OID
	FanInfo(OID) (*FanInfo, error)
}

type FanSetter interface {
	SetFanPercentage(OID, int) error
}

type Psus interface {
	PsuOIDs() []OID
	PsuInfo(OID) (*PsuInfo, error)
}

type Leds interface {
	LedOIDs() []OID
	LedInfo(OID) (*LedInfo, error)
}

type LedSetter interface {
	SetLedMode(OID, LedMode) error
}

type Sfps interface {
	// SfpBitmap lists the valid port numbers.
	SfpBitmap() []int
	SfpPresent(port int) (bool, error)
	SfpEeprom(port int) ([]byte, error)
}

type SysInfo struct {
	Platform string
	ONIE     *onie.Info
}

type Syser interface {
	SysInfo() (*SysInfo, error)
}

// Configurer is implemented by boards with site settings, such as
// threshold overrides. The daemons call Configure before Init.
type Configurer interface {
	Configure(*config.Config) error
}

var registry struct {
	sync.Mutex
	byName map[string]func() Platform
}

// Register a board adapter constructor. Like Plot, this panics on a
// duplicate name.
func Register(name string, f func() Platform) {
	registry.Lock()
	defer registry.Unlock()
	if registry.byName == nil {
		registry.byName = make(map[string]func() Platform)
	}
	if _, found := registry.byName[name]; found {
		panic(errors.Errorf("%s: duplicate platform", name))
	}
	registry.byName[name] = f
}

// New returns an uninitialized adapter of the named board.
func New(name string) (Platform, error) {
	registry.Lock()
	f, found := registry.byName[name]
	registry.Unlock()
	if !found {
		return nil, errors.Wrap(ErrUnsupported, name)
	}
	return f(), nil
}

// Names of the registered boards, sorted.
func Names() []string {
	registry.Lock()
	defer registry.Unlock()
	names := make([]string, 0, len(registry.byName))
	for name := range registry.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
