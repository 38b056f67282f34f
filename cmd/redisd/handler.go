// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package redisd

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	grs "github.com/platinasystems/go-redis-server"
)

func (redisd *Redisd) Hexists(key, field string) (int, error) {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	hv, found := redisd.published[key]
	if !found {
		return 0, fmt.Errorf("%s: not found", key)
	}
	if _, found = hv[field]; !found {
		return 0, nil
	}
	return 1, nil
}

// Hget returns the value of the field or, if the field isn't found, the
// sorted "FIELD: VALUE" lines of all fields matching it as a regular
// expression.
func (redisd *Redisd) Hget(key, field string) ([]byte, error) {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()

	hv, found := redisd.published[key]
	if !found {
		return nil, fmt.Errorf("%s: not found", key)
	}
	if b, found := hv[field]; found {
		return b, nil
	}
	re, err := regexp.Compile(field)
	if err != nil {
		return nil, err
	}
	var b []byte
	for _, k := range redisd.subkeys(key, hv) {
		if !re.MatchString(k) {
			continue
		}
		if len(b) > 0 {
			b = append(b, '\n')
		}
		b = append(b, k...)
		b = append(b, ": "...)
		b = append(b, hv[k]...)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%s: not found in %s", field, key)
	}
	return b, nil
}

func (redisd *Redisd) Hgetall(key string) ([][]byte, error) {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	hv, found := redisd.published[key]
	if !found {
		return nil, fmt.Errorf("%s: not found", key)
	}
	subkeys := redisd.subkeys(key, hv)
	bs := make([][]byte, 0, len(subkeys)*2)
	for _, k := range subkeys {
		bs = append(bs, []byte(k), hv[k])
	}
	return bs, nil
}

func (redisd *Redisd) Hkeys(key string) ([][]byte, error) {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	hv, found := redisd.published[key]
	if !found {
		return nil, fmt.Errorf("%s: not found", key)
	}
	subkeys := redisd.subkeys(key, hv)
	bs := make([][]byte, len(subkeys))
	for i, k := range subkeys {
		bs[i] = []byte(k)
	}
	return bs, nil
}

// Hset is forwarded to the daemon assigned the longest matching
// "KEY:FIELD" or "KEY" prefix.
func (redisd *Redisd) Hset(key, field string, value []byte) (int, error) {
	type hsetter interface {
		Hset(string, string, []byte) (int, error)
	}
	redisd.mutex.Lock()
	v := redisd.assignments.Find(key + ":" + field)
	redisd.mutex.Unlock()
	if method, found := v.(hsetter); found {
		return method.Hset(key, field, value)
	}
	return 0, fmt.Errorf("can't hset %s %s", key, field)
}

// Keys matches a pattern with any of "?*\" as a regular expression.
func (redisd *Redisd) Keys(pattern string) ([][]byte, error) {
	isMatch := func(string) bool { return true }
	if len(pattern) > 0 && pattern != "*" {
		if strings.ContainsAny(pattern, "?*\\") {
			re, err := regexp.Compile(pattern)
			if err != nil {
				return nil, err
			}
			isMatch = re.MatchString
		} else {
			isMatch = func(k string) bool { return k == pattern }
		}
	}
	var reply [][]byte
	for _, k := range redisd.keys() {
		if isMatch(k) {
			reply = append(reply, []byte(k))
		}
	}
	return reply, nil
}

// keys returns the sorted, unique hashes of the assignments and
// publications.
func (redisd *Redisd) keys() []string {
	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()
	if len(redisd.cachedKeys) == 0 {
		set := make(map[string]struct{})
		for _, a := range redisd.assignments {
			k := a.prefix
			if i := strings.Index(k, ":"); i > 0 {
				k = k[:i]
			}
			set[k] = struct{}{}
		}
		for k := range redisd.published {
			set[k] = struct{}{}
		}
		for k := range set {
			redisd.cachedKeys = append(redisd.cachedKeys, k)
		}
		sort.Strings(redisd.cachedKeys)
	}
	return append([]string{}, redisd.cachedKeys...)
}

func (redisd *Redisd) Monitor() (*grs.MonitorReply, error) {
	return &grs.MonitorReply{}, nil
}

func (redisd *Redisd) Ping() (*grs.StatusReply, error) {
	return grs.NewStatusReply("PONG"), nil
}

func (redisd *Redisd) Subscribe(channels ...[]byte) (*grs.MultiChannelWriter,
	error) {
	mcw := &grs.MultiChannelWriter{
		Chans: make([]*grs.ChannelWriter, len(channels)),
	}

	redisd.mutex.Lock()
	defer redisd.mutex.Unlock()

	for i, key := range channels {
		cw := &grs.ChannelWriter{
			FirstReply: []interface{}{
				"subscribe",
				key,
				1,
			},
			Channel: make(chan []interface{}, 1024),
		}
		if sub := redisd.sub[string(key)]; sub == nil {
			redisd.sub[string(key)] = &grs.MultiChannelWriter{
				Chans: []*grs.ChannelWriter{cw},
			}
		} else {
			sub.Chans = append(sub.Chans, cw)
		}
		mcw.Chans[i] = cw
	}
	return mcw, nil
}

func (redisd *Redisd) subkeys(key string, hv grs.HashValue) []string {
	if redisd.cachedSubkeys == nil {
		redisd.cachedSubkeys = make(map[string][]string)
	}
	subkeys := redisd.cachedSubkeys[key]
	if len(subkeys) != len(hv) {
		subkeys = subkeys[:0]
		for k := range hv {
			subkeys = append(subkeys, k)
		}
		sort.Strings(subkeys)
		redisd.cachedSubkeys[key] = subkeys
	}
	return subkeys
}
