// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package as7315_27xb

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/hwmon"
	"github.com/platinasystems/goes-onlp/internal/psu"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/spf13/afero"
)

const Name = "accton-as7315-27xb"

const NPsu = 2

func init() {
	onlp.Register(Name, func() onlp.Platform {
		return &Platform{Hwmon: config.DefaultHwmon}
	})
}

// Platform reads the PSU attributes exported by hwmond.
type Platform struct {
	// Hwmon is the export directory.
	Hwmon string
}

func (*Platform) Name() string { return Name }

func (p *Platform) Configure(c *config.Config) error {
	if len(c.Hwmon) > 0 {
		p.Hwmon = c.Hwmon
	}
	return nil
}

func (p *Platform) Init() error {
	_, err := sysfs.Fs.Stat(p.Hwmon)
	return errors.Wrap(err, p.Hwmon)
}

func (*Platform) PsuOIDs() []onlp.OID {
	oids := make([]onlp.OID, NPsu)
	for i := range oids {
		oids[i] = onlp.PsuOID(i + 1)
	}
	return oids
}

// PsuInfo of an absent PSU has no status bits. A present PSU without power
// good is unplugged; one that can't be identified has failed.
func (p *Platform) PsuInfo(oid onlp.OID) (*onlp.PsuInfo, error) {
	id := oid.ID()
	if !oid.IsPsu() || id < 1 || id > NPsu {
		return nil, onlp.Invalid(oid)
	}
	pi := &onlp.PsuInfo{
		Hdr: onlp.Hdr{
			ID:          oid,
			Description: fmt.Sprint("PSU-", id),
		},
	}
	dir, err := p.dir(id - 1)
	if err != nil {
		return nil, err
	}
	if len(dir) == 0 {
		return pi, nil
	}
	present, err := p.readBool(dir, "psu_present")
	if err != nil {
		return nil, err
	}
	if !present {
		return pi, nil
	}
	pi.Status |= onlp.PsuStatusPresent
	good, err := p.readBool(dir, "psu_power_good")
	if err != nil {
		return nil, err
	}
	if !good {
		pi.Status |= onlp.PsuStatusUnplugged
	}
	pi.Model, _ = p.read(dir, "psu_model_name")
	pi.Serial, _ = p.read(dir, "psu_serial")
	m, err := psu.Accton.Lookup(pi.Model)
	if err != nil {
		pi.Status |= onlp.PsuStatusFailed
		return pi, nil
	}
	if m.Input == psu.DC48V {
		pi.Caps |= onlp.PsuCapsDC48
	} else {
		pi.Caps |= onlp.PsuCapsAC
	}
	return pi, nil
}

// dir returns the export directory of the PSU with the given index, or ""
// if it isn't bound.
func (p *Platform) dir(index int) (string, error) {
	want := fmt.Sprint(DriverName, index+1)
	names, err := afero.Glob(sysfs.Fs, filepath.Join(p.Hwmon, "*", "name"))
	if err != nil {
		return "", errors.Wrap(onlp.ErrInternal, err.Error())
	}
	for _, fn := range names {
		b, err := afero.ReadFile(sysfs.Fs, fn)
		if err == nil && strings.TrimSpace(string(b)) == want {
			return filepath.Dir(fn), nil
		}
	}
	return "", nil
}

// read an attribute; a missing attribute file is an attribute that failed
// to Show.
func (p *Platform) read(dir, attr string) (string, error) {
	fn := filepath.Join(dir, attr)
	b, err := afero.ReadFile(sysfs.Fs, fn)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(hwmon.ErrNotFound, fn)
		}
		return "", errors.Wrap(onlp.ErrInternal, err.Error())
	}
	return strings.TrimSpace(string(b)), nil
}

func (p *Platform) readBool(dir, attr string) (bool, error) {
	s, err := p.read(dir, attr)
	if err != nil {
		return false, errors.Wrap(onlp.ErrMissing, err.Error())
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return false, errors.Wrapf(onlp.ErrInternal, "%s: %q", attr, s)
	}
	return i != 0, nil
}
