// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package onlpd polls the board's thermal, fan, PSU, LED, and SFP objects
// and publishes their changes to redis.
package onlpd

import (
	"fmt"
	"net/http"
	"net/rpc"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	"github.com/platinasystems/atsock"
	"github.com/platinasystems/goes-onlp/cmd"
	"github.com/platinasystems/goes-onlp/internal/config"
	"github.com/platinasystems/goes-onlp/internal/metrics"
	"github.com/platinasystems/goes-onlp/internal/sysfs"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/platinasystems/goes-onlp/platform"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

const Name = "onlpd"

// Settable field suffixes by object type.
var WrRegFn = map[onlp.Type]string{
	onlp.TypeFan: "percentage",
	onlp.TypeLed: "mode",
}

var fanRange = []string{"0", "100"}

type printer interface {
	Print(...interface{}) (int, error)
}

type pauser interface {
	Paused() bool
}

type Command struct {
	Info
}

type Info struct {
	mutex    sync.Mutex
	rpc      *atsock.RpcServer
	pub      printer
	stop     chan struct{}
	lasts    map[string]string
	lastErr  string
	platform onlp.Platform
	metrics  *metrics.Metrics
	http     *http.Server
}

func (*Command) String() string { return Name }

func (*Command) Usage() string {
	return Name + " [-config FILE] [-platform NAME] [-root DIR]"
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "platform monitor daemon, publishes to redis",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Every poll interval, publish the changed fields of each platform
	object, e.g.

		thermal.1.temp.units.mC: 43000
		fan.2.speed.units.rpm: 9600
		psu.1.status: powered_on

	and "delete: KEY" for those no longer present.

	These may be set through redis,

		hset platform fan.1.percentage 0-100
		hset platform led.1.mode MODE

OPTIONS
	-config FILE
		site configuration, default /etc/goes/onlp.yaml
	-platform NAME
		board adapter; otherwise, that of the configuration or the
		ONIE EEPROM PlatformName
	-root DIR
		alternate /sys mount`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(args ...string) error {
	parm, args := parms.New(args, "-config", "-platform", "-root")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}

	cfg, err := config.Load(parm.ByName["-config"])
	if err != nil {
		return err
	}
	if s := parm.ByName["-root"]; len(s) > 0 {
		cfg.Root = s
	}
	sysfs.Root = cfg.Root

	c.platform, err = platform.Open(cfg, parm.ByName["-platform"])
	if err != nil {
		return err
	}

	if err = redis.IsReady(); err != nil {
		return err
	}

	c.stop = make(chan struct{})
	c.lasts = make(map[string]string)

	if c.pub, err = publisher.New(); err != nil {
		return err
	}

	if c.rpc, err = atsock.NewRpcServer(Name); err != nil {
		return err
	}

	rpc.Register(&c.Info)
	for t := range WrRegFn {
		err = redis.Assign(redis.DefaultHash+":"+t.String()+".",
			Name, "Info")
		if err != nil {
			return err
		}
	}

	if len(cfg.Metrics) > 0 {
		c.metrics = metrics.New()
		c.http = &http.Server{
			Addr:    cfg.Metrics,
			Handler: c.metrics.Handler(),
		}
		go func() {
			err := c.http.ListenAndServe()
			if err != nil && err != http.ErrServerClosed {
				log.Print("daemon", "err", Name, ": ", err)
			}
		}()
	}

	log.Print("daemon", "info", Name, ": ", c.platform.Name())

	holdOff := &backoff.Backoff{
		Min:    cfg.Poll,
		Max:    12 * cfg.Poll,
		Factor: 2,
	}
	var until time.Time
	t := time.NewTicker(cfg.Poll)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return nil
		case now := <-t.C:
			if now.Before(until) {
				break
			}
			if err = c.update(); err != nil {
				d := holdOff.Duration()
				log.Print("daemon", "err", Name, ": ", err,
					", holding off ", d)
				until = now.Add(d)
			} else {
				holdOff.Reset()
			}
		}
	}
}

func (c *Command) Close() error {
	if c.http != nil {
		c.http.Close()
	}
	if c.rpc != nil {
		c.rpc.Close()
	}
	close(c.stop)
	return nil
}

// update publishes the changed fields; it returns an error only if it
// can't publish. The first object error of the walk is logged as it
// changes.
func (i *Info) update() error {
	if p, ok := i.platform.(pauser); ok && p.Paused() {
		return nil
	}
	i.mutex.Lock()
	defer i.mutex.Unlock()
	var perr error
	seen := make(map[string]bool)
	werr := onlp.Walk(i.platform, func(k string, v interface{}) {
		seen[k] = true
		if perr != nil {
			return
		}
		s := fmt.Sprint(v)
		last, found := i.lasts[k]
		if found && last == s {
			return
		}
		if found && strings.HasSuffix(k, ".status") {
			log.Print("daemon", "info", Name, ": ", k, ": ", last,
				" -> ", s)
		}
		if _, err := i.pub.Print(k, ": ", s); err != nil {
			perr = err
			return
		}
		i.lasts[k] = s
	})
	if perr != nil {
		return perr
	}
	for k := range i.lasts {
		if !seen[k] {
			if _, err := i.pub.Print("delete: ", k); err != nil {
				return err
			}
			delete(i.lasts, k)
		}
	}
	if i.metrics != nil {
		i.metrics.Update(i.platform)
	}
	var s string
	if werr != nil {
		s = werr.Error()
	}
	if s != i.lastErr {
		if len(s) > 0 {
			log.Print("daemon", "err", Name, ": ", s)
		} else {
			log.Print("daemon", "info", Name, ": recovered")
		}
		i.lastErr = s
	}
	return nil
}

// parseField returns the OID and suffix of TYPE.ID.FIELD
func parseField(field string) (onlp.OID, string, error) {
	s := strings.SplitN(field, ".", 3)
	if len(s) != 3 {
		return 0, "", fmt.Errorf("cannot hset: %s", field)
	}
	id, err := strconv.Atoi(s[1])
	if err != nil || id <= 0 {
		return 0, "", fmt.Errorf("cannot hset: %s", field)
	}
	for t, fn := range WrRegFn {
		if t.String() == s[0] && fn == s[2] {
			return onlp.NewOID(t, id), fn, nil
		}
	}
	return 0, "", fmt.Errorf("cannot hset: %s", field)
}

func (i *Info) Hset(args args.Hset, reply *reply.Hset) error {
	oid, _, err := parseField(args.Field)
	if err != nil {
		return err
	}
	value := string(args.Value)
	i.mutex.Lock()
	defer i.mutex.Unlock()
	switch {
	case oid.IsFan():
		setter, ok := i.platform.(onlp.FanSetter)
		if !ok {
			return fmt.Errorf("cannot hset: %s", args.Field)
		}
		pct, err := strconv.Atoi(value)
		if err != nil {
			return err
		}
		if pct < 0 || pct > 100 {
			return fmt.Errorf("Cannot hset.  Valid range is: %s",
				fanRange)
		}
		if err = setter.SetFanPercentage(oid, pct); err != nil {
			return errors.Wrap(err, args.Field)
		}
	case oid.IsLed():
		setter, ok := i.platform.(onlp.LedSetter)
		leds, isLeds := i.platform.(onlp.Leds)
		if !ok || !isLeds {
			return fmt.Errorf("cannot hset: %s", args.Field)
		}
		li, err := leds.LedInfo(oid)
		if err != nil {
			return errors.Wrap(err, args.Field)
		}
		mode, err := onlp.ParseLedMode(value)
		if err != nil || !li.Caps.Has(mode) {
			return fmt.Errorf("Cannot hset.  Valid values are: %s",
				ledModes(li.Caps))
		}
		if err = setter.SetLedMode(oid, mode); err != nil {
			return errors.Wrap(err, args.Field)
		}
	}
	i.set(args.Field, value)
	*reply = 1
	return nil
}

func (i *Info) set(key, value string) {
	if _, err := i.pub.Print(key, ": ", value); err == nil {
		i.lasts[key] = value
	}
}

func ledModes(caps onlp.LedCaps) []string {
	var modes []string
	for m := onlp.LedModeOff; m <= onlp.LedModeAuto; m++ {
		if caps.Has(m) {
			modes = append(modes, m.String())
		}
	}
	sort.Strings(modes)
	return modes
}
