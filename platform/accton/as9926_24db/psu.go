// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package as9926_24db

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/onlp"
)

const NPsu = 2

func (*Platform) PsuOIDs() []onlp.OID {
	return []onlp.OID{onlp.PsuOID(1), onlp.PsuOID(2)}
}

func psuAttr(id int, attr string) string {
	return fmt.Sprintf("%s/psu%d_%s", PsuDir, id, attr)
}

// PsuInfo reads the PMBus readings of a present PSU from the psu driver.
// Readings that fail are left out of the caps.
func (*Platform) PsuInfo(oid onlp.OID) (*onlp.PsuInfo, error) {
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
	present, err := sysfs.ReadInt(psuAttr(id, "present"))
	if err != nil {
		return pi, errors.Wrapf(onlp.ErrInternal, "%s: %v", oid, err)
	}
	if present == 0 {
		return pi, nil
	}
	pi.Status |= onlp.PsuStatusPresent
	if good, err := sysfs.ReadInt(psuAttr(id, "power_good")); err != nil ||
		good == 0 {
		pi.Status |= onlp.PsuStatusFailed
		return pi, nil
	}
	pi.Caps |= onlp.PsuCapsAC
	pi.Model, _ = sysfs.ReadString(psuAttr(id, "model"), 32)
	pi.Serial, _ = sysfs.ReadString(psuAttr(id, "serial"), 32)
	for _, x := range []struct {
		attr string
		cap  onlp.PsuCaps
		v    *int
	}{
		{"vin", onlp.PsuCapsVin, &pi.MilliVin},
		{"vout", onlp.PsuCapsVout, &pi.MilliVout},
		{"iin", onlp.PsuCapsIin, &pi.MilliIin},
		{"iout", onlp.PsuCapsIout, &pi.MilliIout},
		{"pin", onlp.PsuCapsPin, &pi.MilliPin},
		{"pout", onlp.PsuCapsPout, &pi.MilliPout},
	} {
		if v, err := sysfs.ReadInt(psuAttr(id, x.attr)); err == nil {
			*x.v = v
			pi.Caps |= x.cap
		}
	}
	return pi, nil
}
