// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package snj61d0_320f

// Bit positions beyond the width test clear and are ignored by Set and
// Reset.

func TestBit8(v uint8, pos uint) bool   { return v>>pos&1 == 1 }
func TestBit16(v uint16, pos uint) bool { return v>>pos&1 == 1 }
func TestBit32(v uint32, pos uint) bool { return v>>pos&1 == 1 }
func TestBit64(v uint64, pos uint) bool { return v>>pos&1 == 1 }

func SetBit8(v uint8, pos uint) uint8    { return v | 1<<pos }
func SetBit16(v uint16, pos uint) uint16 { return v | 1<<pos }
func SetBit32(v uint32, pos uint) uint32 { return v | 1<<pos }
func SetBit64(v uint64, pos uint) uint64 { return v | 1<<pos }

func ResetBit8(v uint8, pos uint) uint8    { return v &^ (1 << pos) }
func ResetBit16(v uint16, pos uint) uint16 { return v &^ (1 << pos) }
func ResetBit32(v uint32, pos uint) uint32 { return v &^ (1 << pos) }
func ResetBit64(v uint64, pos uint) uint64 { return v &^ (1 << pos) }
