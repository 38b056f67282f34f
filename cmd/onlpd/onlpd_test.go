// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onlpd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/platinasystems/goes-onlp/internal/test"
	"github.com/platinasystems/goes-onlp/onlp"
	"github.com/platinasystems/redis/rpc/args"
	"github.com/platinasystems/redis/rpc/reply"
)

type lines struct {
	printed []string
	err     error
}

func (l *lines) Print(a ...interface{}) (int, error) {
	if l.err != nil {
		return 0, l.err
	}
	s := fmt.Sprint(a...)
	l.printed = append(l.printed, s)
	return len(s), nil
}

func (l *lines) reset() { l.printed = nil }

func (l *lines) String() string { return strings.Join(l.printed, "\n") }

func join(s ...string) string { return strings.Join(s, "\n") }

type board struct {
	paused  bool
	present bool
	pct     int
	mode    onlp.LedMode
}

func (*board) Name() string { return "test-board" }
func (*board) Init() error  { return nil }

func (b *board) Paused() bool { return b.paused }

func (*board) FanOIDs() []onlp.OID { return []onlp.OID{onlp.FanOID(1)} }

func (b *board) FanInfo(oid onlp.OID) (*onlp.FanInfo, error) {
	fi := &onlp.FanInfo{
		Hdr:  onlp.Hdr{ID: oid, Description: "Chassis Fan 1"},
		Caps: onlp.FanCapsGetPercentage,
	}
	if b.present {
		fi.Status = onlp.FanStatusPresent
		fi.Percentage = b.pct
	}
	return fi, nil
}

func (b *board) SetFanPercentage(oid onlp.OID, pct int) error {
	b.pct = pct
	return nil
}

func (*board) LedOIDs() []onlp.OID { return []onlp.OID{onlp.LedOID(1)} }

func (b *board) LedInfo(oid onlp.OID) (*onlp.LedInfo, error) {
	if oid.ID() != 1 {
		return nil, onlp.Invalid(oid)
	}
	return &onlp.LedInfo{
		Hdr:    onlp.Hdr{ID: oid, Description: "System"},
		Status: onlp.LedStatusPresent,
		Caps: onlp.LedCap(onlp.LedModeOff) |
			onlp.LedCap(onlp.LedModeGreen) |
			onlp.LedCap(onlp.LedModeGreenBlinking),
		Mode: b.mode,
	}, nil
}

func (b *board) SetLedMode(oid onlp.OID, mode onlp.LedMode) error {
	b.mode = mode
	return nil
}

func newInfo() (*Info, *board, *lines) {
	b := &board{present: true, pct: 40, mode: onlp.LedModeGreen}
	l := new(lines)
	return &Info{
		pub:      l,
		lasts:    make(map[string]string),
		platform: b,
	}, b, l
}

func TestUpdate(t *testing.T) {
	assert := test.Assert{TB: t}
	i, b, l := newInfo()

	assert.Nil(i.update())
	assert.Equal(l.String(), join(
		"fan.1.name: Chassis Fan 1",
		"fan.1.status: ok",
		"fan.1.percentage: 40",
		"led.1.name: System",
		"led.1.status: ok",
		"led.1.mode: green",
	))

	l.reset()
	assert.Nil(i.update())
	assert.Int(len(l.printed), 0)

	b.pct = 60
	assert.Nil(i.update())
	assert.Equal(l.String(), join("fan.1.percentage: 60"))

	l.reset()
	b.present = false
	assert.Nil(i.update())
	assert.Equal(l.String(), join(
		"fan.1.status: not_installed",
		"delete: fan.1.percentage",
	))
}

func TestPaused(t *testing.T) {
	assert := test.Assert{TB: t}
	i, b, l := newInfo()
	b.paused = true
	assert.Nil(i.update())
	assert.Int(len(l.printed), 0)
}

func TestPublishError(t *testing.T) {
	assert := test.Assert{TB: t}
	i, _, l := newInfo()
	l.err = errors.New("closed")
	assert.Error(i.update(), "closed")
	assert.Int(len(i.lasts), 0)
}

func TestHsetFan(t *testing.T) {
	assert := test.Assert{TB: t}
	i, b, l := newInfo()
	var r reply.Hset

	assert.Nil(i.Hset(args.Hset{
		Field: "fan.1.percentage",
		Value: []byte("75"),
	}, &r))
	assert.Int(int(r), 1)
	assert.Int(b.pct, 75)
	assert.Equal(l.String(), join("fan.1.percentage: 75"))

	assert.Error(i.Hset(args.Hset{
		Field: "fan.1.percentage",
		Value: []byte("101"),
	}, &r), "Cannot hset.  Valid range is: [0 100]")
	assert.Int(b.pct, 75)

	assert.Error(i.Hset(args.Hset{
		Field: "fan.1.rpm",
		Value: []byte("1000"),
	}, &r), "cannot hset: fan.1.rpm")
	assert.Error(i.Hset(args.Hset{
		Field: "fan.x.percentage",
		Value: []byte("10"),
	}, &r), "cannot hset: fan.x.percentage")
}

func TestHsetLed(t *testing.T) {
	assert := test.Assert{TB: t}
	i, b, _ := newInfo()
	var r reply.Hset

	assert.Nil(i.Hset(args.Hset{
		Field: "led.1.mode",
		Value: []byte("green-blinking"),
	}, &r))
	assert.Equal(b.mode.String(), "green-blinking")

	assert.Error(i.Hset(args.Hset{
		Field: "led.1.mode",
		Value: []byte("red"),
	}, &r), "Cannot hset.  Valid values are: [green green-blinking off]")
	assert.Error(i.Hset(args.Hset{
		Field: "led.2.mode",
		Value: []byte("off"),
	}, &r), onlp.ErrInvalid)
}
