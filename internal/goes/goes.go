// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package goes dispatches the commands of a multi-call program, e.g.
//
//	goes-onlp onlpdump -platform accton-as9926-24db
//	goes-onlp onlpd -help
//	goes-onlp man hwmond
package goes

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/platinasystems/goes-onlp/cmd"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/log"
)

var (
	Exit = os.Exit

	// Stdout of the helpers.
	Stdout io.Writer = os.Stdout
)

type Goes struct {
	NAME    string
	USAGE   string
	APROPOS lang.Alt
	MAN     lang.Alt
	ByName  map[string]cmd.Cmd
}

func (g *Goes) String() string { return g.NAME }

// Names of the commands, sorted.
func (g *Goes) Names() []string {
	names := make([]string, 0, len(g.ByName))
	for k := range g.ByName {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (g *Goes) builtins() map[string]func(...string) error {
	return map[string]func(...string) error{
		"apropos": g.apropos,
		"help":    g.help,
		"man":     g.man,
		"usage":   g.usage,
	}
}

// Main runs the args[0] command. Without args, it runs os.Args, stripped of
// the program name, and exits on error.
//
// A hyphen prefaced helper following the command is swapped, so,
//
//	COMMAND -help
//
// is run as
//
//	help COMMAND
func (g *Goes) Main(args ...string) (err error) {
	if len(args) == 0 {
		args = os.Args
		if len(args) > 0 {
			if base := filepath.Base(args[0]); base == g.NAME ||
				base == ProgBase() {
				args = args[1:]
			}
		}
		defer func() {
			if err != nil && err != io.EOF {
				fmt.Fprintf(os.Stderr, "%s: %v\n", g.NAME, err)
				Exit(1)
			}
		}()
	}
	if len(args) == 0 {
		fmt.Fprintln(Stdout, Usage(g))
		return nil
	}
	cmd.Swap(args)
	name := args[0]
	args = args[1:]
	if f, found := g.builtins()[name]; found {
		return f(args...)
	}
	v, found := g.ByName[name]
	if !found {
		return fmt.Errorf("%s: command not found", name)
	}
	k := cmd.WhatKind(v)
	if k.IsDaemon() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGTERM)
		defer signal.Stop(sig)
		go wait(v, sig)
	}
	err = v.Main(args...)
	if err == io.EOF {
		err = nil
	}
	if err != nil {
		if k.IsDaemon() {
			log.Print("daemon", "err", name, ": ", err)
		}
		err = fmt.Errorf("%s: %v", name, err)
	}
	return err
}

func wait(v cmd.Cmd, sig chan os.Signal) {
	if _, ok := <-sig; !ok {
		return
	}
	if method, found := v.(io.Closer); found {
		if err := method.Close(); err != nil {
			log.Print("daemon", "err", v, ": ", err)
		}
	}
	log.Print("daemon", "info", v, ": killed")
	Exit(0)
}
