// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package redisd provides the redis server of the published platform
// fields. It must run before the other daemons.
package redisd

import (
	"bytes"
	"fmt"
	"net"
	"os"
	"strings"
	"sync"

	"github.com/platinasystems/atsock"
	grs "github.com/platinasystems/go-redis-server"
	"github.com/platinasystems/goes-onlp/cmd"
	"github.com/platinasystems/goes-onlp/lang"
	"github.com/platinasystems/log"
	"github.com/platinasystems/parms"
	"github.com/platinasystems/redis"
	"github.com/platinasystems/redis/publisher"
	"github.com/platinasystems/redis/rpc/reg"
)

const Name = "redisd"

type Command struct {
	// Machines may use this Hook to Print redis "[key: ]field: value"
	// strings before any other daemons are run.
	Hook func(*publisher.Publisher)

	// A non-empty Machine is published to redis as "machine: Machine"
	Machine string

	// Machines may override this list of published hashes.
	// default: redis.DefaultHash
	PublishedKeys []string

	pubconn *net.UnixConn
	stop    chan struct{}
	wg      sync.WaitGroup
	redisd  Redisd
}

func (*Command) String() string { return Name }

func (*Command) Usage() string {
	return Name + " [-listen ADDR] [-set FIELD=VALUE]..."
}

func (*Command) Apropos() lang.Alt {
	return lang.Alt{
		lang.EnUS: "a redis server",
	}
}

func (*Command) Man() lang.Alt {
	return lang.Alt{
		lang.EnUS: `
DESCRIPTION
	Run a redis server on the @redisd abstract unix socket.

OPTIONS
	-listen ADDR
		also serve this TCP address, e.g. 127.0.0.1:6379
	-set FIELD=VALUE
		initialize the default hash with the given field values`,
	}
}

func (*Command) Kind() cmd.Kind { return cmd.Daemon }

func (c *Command) Main(args ...string) error {
	parm, args := parms.New(args, "-listen", "-set")
	if len(args) > 0 {
		return fmt.Errorf("%v: unexpected", args)
	}

	grs.Stderr = os.Stderr
	c.stop = make(chan struct{})
	c.redisd.init(c.PublishedKeys...)

	srv, err := c.redisd.serve(grs.DefaultConfig().
		Proto("unix").
		Host("@redisd"))
	if err != nil {
		return err
	}
	c.goStart(srv)

	if s := parm.ByName["-listen"]; len(s) > 0 {
		host, port, err := net.SplitHostPort(s)
		if err != nil {
			return err
		}
		var n int
		if _, err = fmt.Sscan(port, &n); err != nil {
			return err
		}
		srv, err := c.redisd.serve(grs.DefaultConfig().
			Host(host).
			Port(n))
		if err != nil {
			return err
		}
		c.goStart(srv)
		log.Print("daemon", "info", Name, ": listen ", s)
	}

	c.redisd.reg, err = reg.New(c.redisd.assign, c.redisd.unassign)
	if err != nil {
		return err
	}

	c.pubconn, err = atsock.ListenUnixgram("redis.pub")
	if err != nil {
		return err
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.gopub()
	}()

	err = c.pubinit(strings.Fields(parm.ByName["-set"])...)
	if err != nil {
		return err
	}

	<-c.stop

	if c.redisd.reg != nil {
		c.redisd.reg.Srvr.Close()
	}
	if c.pubconn != nil {
		c.pubconn.Close()
	}
	c.redisd.close()
	c.wg.Wait()
	return nil
}

func (c *Command) Close() error {
	close(c.stop)
	return nil
}

func (c *Command) goStart(srv *grs.Server) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		srv.Start()
	}()
}

func (c *Command) gopub() {
	b := make([]byte, os.Getpagesize())
	for {
		n, err := c.pubconn.Read(b)
		if err != nil {
			break
		}
		c.redisd.publish(b[:n])
	}
}

func (c *Command) pubinit(fieldEqValues ...string) error {
	pub, err := publisher.New()
	if err != nil {
		return err
	}
	defer pub.Close()

	if hostname, err := os.Hostname(); err == nil {
		pub.Print("hostname: ", hostname)
	}
	if len(c.Machine) > 0 {
		pub.Print("machine: ", c.Machine)
	}

	if c.Hook != nil {
		c.Hook(pub)
	}

	for _, feqv := range fieldEqValues {
		field, value, ok := fieldValue(feqv)
		if ok {
			pub.Print(field, ": ", value)
		}
	}

	_, err = pub.Print("redis.ready: true")
	return err
}

// fieldValue splits FIELD=VALUE; a FIELD without "=" has an empty value.
func fieldValue(feqv string) (field, value string, ok bool) {
	eq := strings.Index(feqv, "=")
	switch {
	case eq == 0:
		return "", "", false
	case eq < 0:
		return feqv, "", true
	}
	return feqv[:eq], feqv[eq+1:], true
}

type Redisd struct {
	mutex sync.Mutex
	srvs  []*grs.Server
	sub   map[string]*grs.MultiChannelWriter

	reg *reg.Reg

	assignments Assignments

	published grs.HashHash

	cachedKeys    []string
	cachedSubkeys map[string][]string
}

func (redisd *Redisd) init(keys ...string) {
	redisd.sub = make(map[string]*grs.MultiChannelWriter)
	redisd.published = make(grs.HashHash)
	if len(keys) == 0 {
		keys = []string{redis.DefaultHash}
	}
	for _, k := range keys {
		redisd.published[k] = make(grs.HashValue)
	}
}

func (redisd *Redisd) serve(cfg *grs.Config) (*grs.Server, error) {
	srv, err := grs.NewServer(cfg.Handler(redisd))
	if err != nil {
		return nil, err
	}
	redisd.mutex.Lock()
	redisd.srvs = append(redisd.srvs, srv)
	redisd.mutex.Unlock()
	return srv, nil
}

func (redisd *Redisd) close() {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	for i, srv := range redisd.srvs {
		srv.Close()
		redisd.srvs[i] = nil
	}
	redisd.srvs = redisd.srvs[:0]
}

// publish a "[KEY: ]FIELD: VALUE" or "[KEY: ]delete: PREFIX" message.
func (redisd *Redisd) publish(b []byte) {
	const sep = ": "
	var key, field string
	var fv, value []byte
	t := bytes.TrimSpace(b)
	x := bytes.SplitN(t, []byte(sep), 3)
	switch len(x) {
	case 2:
		key = redis.DefaultHash
		field = string(x[0])
		value = x[1]
		fv = t
	case 3:
		key = string(x[0])
		field = string(x[1])
		value = x[2]
		fv = t[bytes.Index(t, []byte(sep))+2:]
	default:
		return
	}
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	hv, found := redisd.published[key]
	if !found {
		hv = make(grs.HashValue)
		redisd.published[key] = hv
		redisd.flushKeyCache()
	}
	if field == "delete" {
		for k := range hv {
			if strings.HasPrefix(k, string(value)) {
				delete(hv, k)
			}
		}
	} else {
		hv[field] = append(hv[field][:0], value...)
		if sub, found := redisd.sub[key]; found {
			mb := make([]byte, len(fv))
			copy(mb, fv)
			redisd.broadcast(sub, []interface{}{"message", key, mb})
		}
	}
	redisd.flushSubkeyCache(key)
}

func (redisd *Redisd) broadcast(sub *grs.MultiChannelWriter,
	msg []interface{}) {
	for i := 0; i < len(sub.Chans); {
		select {
		case sub.Chans[i].Channel <- msg:
			i++
		default:
			// cull this subscriber
			close(sub.Chans[i].Channel)
			n := len(sub.Chans) - 1
			if i != n {
				copy(sub.Chans[i:], sub.Chans[i+1:])
			}
			sub.Chans[n] = nil
			sub.Chans = sub.Chans[:n]
		}
	}
}

func (redisd *Redisd) assign(key string, v interface{}) error {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	redisd.assignments = redisd.assignments.Insert(key, v)
	redisd.flushKeyCache()
	return nil
}

func (redisd *Redisd) unassign(key string) error {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	if _, found := redisd.assignments.Find(key).(struct{}); found {
		return fmt.Errorf("%s: not found", key)
	}
	redisd.assignments = redisd.assignments.Delete(key)
	redisd.flushKeyCache()
	return nil
}

func (redisd *Redisd) flushKeyCache() {
	redisd.cachedKeys = redisd.cachedKeys[:0]
}

func (redisd *Redisd) flushSubkeyCache(key string) {
	if redisd.cachedSubkeys == nil {
		return
	}
	a, found := redisd.cachedSubkeys[key]
	if found {
		redisd.cachedSubkeys[key] = a[:0]
	}
}
