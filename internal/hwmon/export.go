// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

package hwmon

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ShowError is the first attribute failure of an Export.
type ShowError struct{ Err error }

func (e *ShowError) Error() string { return e.Err.Error() }
func (e *ShowError) Unwrap() error { return e.Err }

func IsShowError(err error) bool {
	_, ok := err.(*ShowError)
	return ok
}

// Export writes each attribute of every bound device to
// ROOT/BUS-ADDR/ATTR and the client name to ROOT/BUS-ADDR/name. The file
// of an attribute that fails to Show is removed. Export returns the first
// Show error, after exporting everything else.
func Export(fs afero.Fs, root string) error {
	return ExportFunc(fs, root, nil)
}

// ExportFunc is Export that also calls f, if not nil, with the
// "BUS-ADDR.ATTR" key and trimmed value of each shown attribute.
func ExportFunc(fs afero.Fs, root string, f func(k, v string)) error {
	var first error
	for _, b := range Devices() {
		dir := filepath.Join(root, b.String())
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(err, dir)
		}
		fn := filepath.Join(dir, "name")
		err := afero.WriteFile(fs, fn, []byte(b.Name+"\n"), 0644)
		if err != nil {
			return errors.Wrap(err, fn)
		}
		for _, a := range b.Device.Attrs() {
			fn = filepath.Join(dir, a.Name)
			s, err := a.Show()
			if err != nil {
				if rerr := fs.Remove(fn); rerr != nil &&
					!os.IsNotExist(rerr) {
					return errors.Wrap(rerr, fn)
				}
				if first == nil {
					first = &ShowError{errors.Wrap(err, fn)}
				}
				continue
			}
			if err = afero.WriteFile(fs, fn, []byte(s), 0644); err != nil {
				return errors.Wrap(err, fn)
			}
			if f != nil {
				f(b.String()+"."+a.Name, strings.TrimSpace(s))
			}
		}
	}
	return first
}

// Unexport removes the directory of a deleted device.
func Unexport(fs afero.Fs, root string, bus, addr int) error {
	dir := filepath.Join(root, DevName(bus, addr))
	return errors.Wrap(fs.RemoveAll(dir), dir)
}
