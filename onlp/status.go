// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package onlp

import (
	"fmt"

	"github.com/pkg/errors"
)

// Status is the numeric return code of the platform contract.
type Status int

const (
	StatusOK          Status = 0
	StatusGeneric     Status = -1
	StatusUnsupported Status = -10
	StatusMissing     Status = -11
	StatusInvalid     Status = -12
	StatusInternal    Status = -13
	StatusParam       Status = -14
	StatusI2C         Status = -15
)

var (
	ErrUnsupported = errors.New("unsupported")
	ErrMissing     = errors.New("missing")
	ErrInvalid     = errors.New("invalid oid")
	ErrInternal    = errors.New("internal error")
	ErrParam       = errors.New("invalid parameter")
	ErrI2C         = errors.New("i2c error")
)

var statusByErr = []struct {
	err    error
	status Status
}{
	{ErrUnsupported, StatusUnsupported},
	{ErrMissing, StatusMissing},
	{ErrInvalid, StatusInvalid},
	{ErrInternal, StatusInternal},
	{ErrParam, StatusParam},
	{ErrI2C, StatusI2C},
}

// StatusOf maps an error, possibly wrapped, to its contract code. Errors
// that don't wrap one of the sentinels are internal errors.
func StatusOf(err error) Status {
	if err == nil {
		return StatusOK
	}
	for _, x := range statusByErr {
		if errors.Is(err, x.err) {
			return x.status
		}
	}
	return StatusInternal
}

// Err returns the sentinel error of the given code.
func (s Status) Err() error {
	if s == StatusOK {
		return nil
	}
	for _, x := range statusByErr {
		if x.status == s {
			return x.err
		}
	}
	return fmt.Errorf("status %d", int(s))
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusGeneric:
		return "E_GENERIC"
	case StatusUnsupported:
		return "E_UNSUPPORTED"
	case StatusMissing:
		return "E_MISSING"
	case StatusInvalid:
		return "E_INVALID"
	case StatusInternal:
		return "E_INTERNAL"
	case StatusParam:
		return "E_PARAM"
	case StatusI2C:
		return "E_I2C"
	}
	return fmt.Sprintf("E_%d", -int(s))
}

// Invalid returns ErrInvalid wrapped with the offending oid.
func Invalid(oid OID) error {
	return errors.Wrap(ErrInvalid, oid.String())
}
