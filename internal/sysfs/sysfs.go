// Copyright © 2015-2020 Platina Systems, Inc. All rights reserved.
// Use of this source code is governed by the GPL-2 license described in the
// LICENSE file.

// Package sysfs reads and writes the single value attribute files of
// /sys. A path with a '*' is resolved by searching beneath its leading
// directory for the trailing file name, so,
//
//	/sys/devices/platform/coretemp.0*temp2_input
//
// finds /sys/devices/platform/coretemp.0/hwmon/hwmon1/temp2_input.
package sysfs

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var (
	// Fs is replaced by an afero.MemMapFs in tests.
	Fs = afero.NewOsFs()

	// Root is prefixed to every path, e.g. an alternate mount of /sys.
	Root string

	errFound = errors.New("found")
)

// Resolve returns the Root prefixed path, after expanding a '*'.
func Resolve(path string) (string, error) {
	path = filepath.Join(Root, path)
	star := strings.Index(path, "*")
	if star < 0 {
		return path, nil
	}
	dir, name := path[:star], path[star+1:]
	var found string
	err := afero.Walk(Fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() && info.Name() == name {
			found = p
			return errFound
		}
		return nil
	})
	if found != "" {
		return found, nil
	}
	if err == nil {
		err = os.ErrNotExist
	}
	return "", errors.Wrap(err, path)
}

// ReadString returns the content of the file less trailing white space,
// truncated to max bytes if max > 0.
func ReadString(path string, max int) (string, error) {
	b, err := ReadBinary(path, max)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), " \t\r\n\x00"), nil
}

// ReadBinary returns up to max bytes of the file; all, if max is 0.
func ReadBinary(path string, max int) ([]byte, error) {
	fn, err := Resolve(path)
	if err != nil {
		return nil, err
	}
	b, err := afero.ReadFile(Fs, fn)
	if err != nil {
		return nil, errors.Wrap(err, fn)
	}
	if max > 0 && len(b) > max {
		b = b[:max]
	}
	return b, nil
}

// ReadInt parses the decimal, or 0x prefaced hexadecimal, file content.
func ReadInt(path string) (int, error) {
	s, err := ReadString(path, 0)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, errors.Wrap(err, path)
	}
	return int(i), nil
}

// ReadIntMax returns the greatest value of the readable files.  It fails
// only if none are readable.
func ReadIntMax(paths ...string) (int, error) {
	var (
		max   int
		found bool
		first error
	)
	for _, path := range paths {
		i, err := ReadInt(path)
		if err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		if !found || i > max {
			max = i
		}
		found = true
	}
	if !found {
		if first == nil {
			first = errors.Wrap(os.ErrNotExist, "no files")
		}
		return 0, first
	}
	return max, nil
}

func WriteString(path, s string) error {
	fn, err := Resolve(path)
	if err != nil {
		return err
	}
	return errors.Wrap(afero.WriteFile(Fs, fn, []byte(s), 0644), fn)
}

func WriteInt(path string, i int) error {
	return WriteString(path, strconv.Itoa(i))
}

// Exists reports whether the path resolves to an existing file.
func Exists(path string) bool {
	fn, err := Resolve(path)
	if err != nil {
		return false
	}
	_, err = Fs.Stat(fn)
	return err == nil
}
