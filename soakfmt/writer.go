// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakfmt

import (
	"encoding/csv"
	"io"
	"strconv"
)

// A Writer writes the soak capture format.
type Writer struct {
	c     *csv.Writer
	first bool
	rec   []string
}

// NewWriter returns a writer that writes capture samples to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{c: csv.NewWriter(w), first: true, rec: make([]string, len(Columns))}
}

// Write writes sample s to w. The first call also emits the header
// row. Values are formatted with the shortest representation that
// reads back identically.
func (w *Writer) Write(s Sample) error {
	if w.first {
		if err := w.c.Write(Columns); err != nil {
			return err
		}
		w.first = false
	}

	w.rec[0] = s.Experiment
	w.rec[1] = s.Variant.String()
	w.rec[2] = strconv.FormatInt(s.FetchIndex, 10)
	w.rec[3] = strconv.FormatFloat(s.Value, 'g', -1, 64)
	if err := w.c.Write(w.rec); err != nil {
		return err
	}

	// Flush to the io.Writer so errors surface on the sample
	// that caused them.
	w.c.Flush()
	return w.c.Error()
}
