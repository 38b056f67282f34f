// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package version

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/platinasystems/flags"
	"github.com/platinasystems/goes-onlp/lang"
)

const Unavailable = "(unavailable)"

var (
	Stdout io.Writer = os.Stdout

	// ReadBuildInfo is replaced in tests.
	ReadBuildInfo = debug.ReadBuildInfo
)

type Command struct {
	// V, if set, is printed for a "(devel)" build.
	V string
}

func (Command) String() string { return "version" }
func (Command) Usage() string  { return "version [-v]" }

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print goes-onlp version",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
OPTIONS
	-v	also print the version of each module dependency`,
	}
}

func (c *Command) Main(args ...string) error {
	flag, args := flags.New(args, "-v")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	bi, ok := ReadBuildInfo()
	if !ok {
		_, err := fmt.Fprintln(Stdout, Unavailable)
		return err
	}
	ver := bi.Main.Version
	if c.V != "" && ver == "(devel)" {
		ver = c.V
	}
	fmt.Fprintln(Stdout, ver)
	if flag.ByName["-v"] {
		for _, dep := range bi.Deps {
			fmt.Fprint(Stdout, "\t", module(dep), "\n")
		}
	}
	return nil
}

func module(m *debug.Module) string {
	if m.Replace == nil {
		return m.Path + "@" + m.Version
	}
	s := m.Path + "=" + m.Replace.Path
	if len(m.Replace.Version) > 0 {
		s += "@" + m.Replace.Version
	}
	return s
}
