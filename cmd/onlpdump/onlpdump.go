// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package onlpdump prints the platform objects of the local board or
// those published by onlpd.
package onlpdump

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/garyburd/redigo/redis"
	"github.com/mattn/go-isatty"
	"github.com/platinasystems/flags"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/platinasystems/goes-onlp/platform"
	"github.com/platinasystems/parms"
	"gopkg.in/yaml.v3"
)

const Name = "onlpdump"

// Stdout is replaced in tests.
var Stdout io.Writer = os.Stdout

type Command struct{}

type field struct {
	k, v string
}

func (Command) String() string { return Name }

func (Command) Usage() string {
	return Name + " [-json | -yaml] [-sfp] [-config FILE] [-platform NAME] " +
		"[-root DIR] [-redis ADDR]"
}

func (Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "print platform objects",
	}
}

func (Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Print the fields of every thermal, fan, PSU, LED, and SFP of the
	board as "KEY: VALUE" lines, aligned on a terminal.

OPTIONS
	-json, -yaml
		print a map of the fields
	-sfp	also print the EEPROM of each present SFP
	-config FILE
	-platform NAME
	-root DIR
		see onlpd
	-redis ADDR
		print the fields published to the redis server at ADDR,
		e.g. 127.0.0.1:6379, rather than those of the local board`,
	}
}

func (c Command) Main(args ...string) error {
	flag, args := flags.New(args, "-json", "-yaml", "-sfp")
	parm, args := parms.New(args, "-config", "-platform", "-root",
		"-redis")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}
	var (
		fields []field
		p      onlp.Platform
		werr   error
	)
	if addr := parm.ByName["-redis"]; len(addr) > 0 {
		var err error
		fields, err = fromRedis(addr)
		if err != nil {
			return err
		}
	} else {
		cfg, err := config.Load(parm.ByName["-config"])
		if err != nil {
			return err
		}
		if s := parm.ByName["-root"]; len(s) > 0 {
			cfg.Root = s
		}
		sysfs.Root = cfg.Root
		p, err = platform.Open(cfg, parm.ByName["-platform"])
		if err != nil {
			return err
		}
		fields, werr = fromPlatform(p)
	}
	var err error
	switch {
	case flag.ByName["-json"]:
		err = printJSON(Stdout, fields)
	case flag.ByName["-yaml"]:
		err = printYAML(Stdout, fields)
	default:
		err = printFields(Stdout, fields, isTerminal(Stdout))
	}
	if err != nil {
		return err
	}
	if flag.ByName["-sfp"] && p != nil {
		if err = printSfps(Stdout, p); err != nil {
			return err
		}
	}
	return werr
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// fromPlatform returns the walked fields along with the walk error.
func fromPlatform(p onlp.Platform) ([]field, error) {
	var fields []field
	err := onlp.Walk(p, func(k string, v interface{}) {
		fields = append(fields, field{k, fmt.Sprint(v)})
	})
	return fields, err
}

func fromRedis(addr string) ([]field, error) {
	conn, err := redis.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	m, err := redis.StringMap(conn.Do("HGETALL", "platform"))
	if err != nil {
		return nil, err
	}
	fields := make([]field, 0, len(m))
	for k, v := range m {
		fields = append(fields, field{k, v})
	}
	sort.Slice(fields, func(i, j int) bool {
		return fields[i].k < fields[j].k
	})
	return fields, nil
}

func printFields(w io.Writer, fields []field, align bool) error {
	if !align {
		for _, f := range fields {
			if _, err := fmt.Fprint(w, f.k, ": ", f.v, "\n"); err != nil {
				return err
			}
		}
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	for _, f := range fields {
		fmt.Fprint(tw, f.k, ":\t", f.v, "\n")
	}
	return tw.Flush()
}

func toMap(fields []field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		m[f.k] = f.v
	}
	return m
}

func printJSON(w io.Writer, fields []field) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(toMap(fields))
}

func printYAML(w io.Writer, fields []field) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(toMap(fields))
}

func printSfps(w io.Writer, p onlp.Platform) error {
	sfps, ok := p.(onlp.Sfps)
	if !ok {
		return nil
	}
	for _, port := range sfps.SfpBitmap() {
		if present, err := sfps.SfpPresent(port); err != nil || !present {
			continue
		}
		b, err := sfps.SfpEeprom(port)
		if err != nil {
			fmt.Fprint(w, "port.", port, ".eeprom: ", err, "\n")
			continue
		}
		fmt.Fprint(w, "port.", port, ".eeprom:\n", hex.Dump(b))
	}
	return nil
}
