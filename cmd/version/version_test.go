// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package version

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/platinasystems/goes-onlp/internal/test"
)

func TestVersion(t *testing.T) {
	assert := test.Assert{TB: t}
	buf := new(bytes.Buffer)
	save, saveRead := Stdout, ReadBuildInfo
	defer func() { Stdout, ReadBuildInfo = save, saveRead }()
	Stdout = buf
	ReadBuildInfo = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "(devel)"},
			Deps: []*debug.Module{
				{Path: "github.com/spf13/afero", Version: "v1.2.2"},
				{Path: "github.com/platinasystems/i2c",
					Replace: &debug.Module{Path: "../i2c"}},
			},
		}, true
	}
	c := &Command{V: "v1.0.0"}
	assert.Nil(c.Main())
	assert.Equal(buf.String(), "v1.0.0\n")

	buf.Reset()
	assert.Nil(c.Main("-v"))
	assert.Equal(buf.String(), "v1.0.0\n"+
		"\tgithub.com/spf13/afero@v1.2.2\n"+
		"\tgithub.com/platinasystems/i2c=../i2c\n")

	buf.Reset()
	ReadBuildInfo = func() (*debug.BuildInfo, bool) { return nil, false }
	assert.Nil(c.Main())
	assert.Equal(buf.String(), Unavailable+"\n")
}
