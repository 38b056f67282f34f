// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// This is the platform management program of ONIE switches, run as
// daemons w/in another distro, e.g.
//
//	goes-onlp redisd &
//	goes-onlp hwmond &
//	goes-onlp onlpd &
//	goes-onlp onlpdump
package main

import (
	"strings"

	"github.com/platinasystems/goes-onlp/cmd"
	"github.com/platinasystems/goes-onlp/cmd/hwmond"
	"github.com/platinasystems/goes-onlp/cmd/onie"
	"github.com/platinasystems/goes-onlp/cmd/onlpd"
	"github.com/platinasystems/goes-onlp/cmd/onlpdump"
	"github.com/platinasystems/goes-onlp/cmd/psuid"
	"github.com/platinasystems/goes-onlp/cmd/redisd"
	"github.com/platinasystems/goes-onlp/cmd/version"
	"github.com/platinasystems/goes-onlp/internal/goes"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/platinasystems/redis/publisher"
)

const Machine = "goes-onlp"

// Version of a "(devel)" build.
var Version = "v0.1.0"

func Goes() *goes.Goes {
	return &goes.Goes{
		NAME: Machine,
		APROPOS: lang.Alt{
			lang.EnUS: "switch platform management",
		},
		ByName: map[string]cmd.Cmd{
			"hwmond":   &hwmond.Command{},
			"onie":     onie.Command{},
			"onlpd":    &onlpd.Command{},
			"onlpdump": onlpdump.Command{},
			"psuid":    psuid.Command{},
			"redisd": &redisd.Command{
				Machine: Machine,
				Hook:    redisdHook,
			},
			"version": &version.Command{V: Version},
		},
	}
}

// redisdHook publishes the supported boards.
func redisdHook(pub *publisher.Publisher) {
	pub.Print("onlp.platforms: ", strings.Join(onlp.Names(), " "))
}

func main() {
	Goes().Main()
}
