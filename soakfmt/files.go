// Copyright 2021 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakfmt

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// An IngestionError reports that a capture directory could not be
// turned into a sample table: it has no capture files, or one of them
// is unreadable or malformed. No partial table is ever returned
// alongside an IngestionError.
type IngestionError struct {
	Root string
	Err  error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("ingesting %s: %s", e.Root, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}

// ErrNoCaptures is wrapped by an IngestionError when a capture
// directory contains no capture files.
var ErrNoCaptures = errors.New("no " + Ext + " files found")

// A Files reads every capture file under a root directory as one
// sequence of samples.
//
// Its API mirrors Reader: call Scan until it returns false, then
// check Err. Unlike Reader, any malformed row is fatal and stops the
// scan.
type Files struct {
	// Root is the directory searched recursively for files with
	// extension Ext.
	Root string

	paths  []string
	walked bool
	pos    int // index in paths of the next file to open

	f      *os.File
	reader Reader

	sample Sample
	err    error
}

// Paths returns the capture files under Root in the order they are
// read. It walks the directory on first use.
func (f *Files) Paths() ([]string, error) {
	if !f.walked {
		f.walk()
	}
	return f.paths, f.err
}

func (f *Files) walk() {
	f.walked = true
	if f.Root == "" {
		f.err = &IngestionError{f.Root, errors.New("capture directory not set")}
		return
	}
	err := filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), Ext) {
			f.paths = append(f.paths, path)
		}
		return nil
	})
	if err != nil {
		f.err = &IngestionError{f.Root, errors.Wrap(err, "walking capture directory")}
		return
	}
	if len(f.paths) == 0 {
		f.err = &IngestionError{f.Root, ErrNoCaptures}
	}
}

// Scan advances to the next sample across all capture files and
// reports whether one was read. When it returns false, the caller
// should check Err.
func (f *Files) Scan() bool {
	if !f.walked {
		f.walk()
	}
	if f.err != nil {
		return false
	}

	for {
		if f.f == nil {
			if f.pos >= len(f.paths) {
				return false
			}
			path := f.paths[f.pos]
			f.pos++
			file, err := os.Open(path)
			if err != nil {
				f.err = &IngestionError{f.Root, err}
				return false
			}
			f.f = file
			f.reader.Reset(file, path)
		}

		if f.reader.Scan() {
			s, err := f.reader.Sample()
			if err != nil {
				f.close()
				f.err = &IngestionError{f.Root, err}
				return false
			}
			f.sample = s
			return true
		}
		err := f.reader.Err()
		f.close()
		if err != nil {
			f.err = &IngestionError{f.Root, err}
			return false
		}
	}
}

func (f *Files) close() {
	if f.f != nil {
		f.f.Close()
		f.f = nil
	}
}

// Sample returns the sample most recently read by Scan.
func (f *Files) Sample() Sample {
	return f.sample
}

// Err returns the error that stopped Scan, or nil if every capture
// file was read to completion.
func (f *Files) Err() error {
	return f.err
}

// ReadAll reads every capture file under root and returns their
// samples concatenated in path order.
func ReadAll(root string) ([]Sample, error) {
	files := Files{Root: root}
	var out []Sample
	for files.Scan() {
		out = append(out, files.Sample())
	}
	if err := files.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
