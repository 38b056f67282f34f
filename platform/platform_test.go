// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package platform

import (
	"testing"

	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/onie"
	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/platinasystems/goes-onlp/onlp"
)

func TestNormalize(t *testing.T) {
	assert := test.Assert{TB: t}
	for name, expect := range map[string]string{
		"x86_64-accton_as7315_27xb-r0":        "accton-as7315-27xb",
		"x86_64-accton_as9926_24db-r0\n":      "accton-as9926-24db",
		"x86_64-alphanetworks_snj61d0_320f-r0": "alphanetworks-snj61d0-320f",
		"accton-as9926-24db":                  "accton-as9926-24db",
	} {
		assert.Equal(Normalize(name), expect)
	}
}

func TestOpen(t *testing.T) {
	assert := test.Assert{TB: t}
	save := ReadOnie
	defer func() { ReadOnie = save }()
	ReadOnie = func(*config.Config) (*onie.Info, error) {
		return onie.Parse(onie.Encode(onie.TLV{
			Code:  onie.PlatformName,
			Value: []byte("x86_64-accton_as9926_24db-r0"),
		}))
	}
	p, err := Open(config.Default(), "")
	assert.Nil(err)
	assert.Equal(p.Name(), "accton-as9926-24db")

	c := config.Default()
	c.Platform = "alphanetworks-snj61d0-320f"
	p, err = Open(c, "")
	assert.Nil(err)
	assert.Equal(p.Name(), "alphanetworks-snj61d0-320f")

	_, err = Open(c, "nosuch-board")
	assert.Error(err, onlp.ErrUnsupported)

	ReadOnie = func(*config.Config) (*onie.Info, error) {
		return onie.Parse(onie.Encode())
	}
	_, err = Open(config.Default(), "")
	assert.Error(err, onlp.ErrMissing)
}
