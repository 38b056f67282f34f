// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package redisd

import "strings"

// Assignments are sorted longest prefix first.
type Assignments []*assignment

type assignment struct {
	prefix string
	v      interface{}
}

// Delete the longest prefix of key.
func (as Assignments) Delete(key string) Assignments {
	for i, a := range as {
		if strings.HasPrefix(key, a.prefix) {
			return append(as[:i], as[i+1:]...)
		}
	}
	return as
}

// Find the value of the longest prefix of key; or struct{}{}, if none.
func (as Assignments) Find(key string) interface{} {
	for _, a := range as {
		if strings.HasPrefix(key, a.prefix) {
			return a.v
		}
	}
	return struct{}{}
}

func (as Assignments) Insert(prefix string, v interface{}) Assignments {
	p := &assignment{prefix, v}
	for i, a := range as {
		if a.prefix == prefix {
			as[i] = p
			return as
		}
		if len(prefix) > len(a.prefix) ||
			len(prefix) == len(a.prefix) && prefix < a.prefix {
			return append(as[:i], append(Assignments{p}, as[i:]...)...)
		}
	}
	return append(as, p)
}
