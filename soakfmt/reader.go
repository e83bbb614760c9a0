// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package soakfmt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// A Reader reads the soak capture format.
//
// Its API is modeled on bufio.Scanner. A Reader retains ownership of
// the Sample it returns until the next call to Scan; since Sample is
// a value type, callers simply copy it.
//
// The zero value of the Reader is a valid Reader, but the user must
// call Reset before using it.
type Reader struct {
	c        *csv.Reader
	fileName string
	lineNum  int
	err      error // current I/O or header error

	// col maps each capture column to its index in a record. It
	// is nil until the header has been read.
	col map[string]int

	sample    Sample
	sampleErr error

	interns map[string]string
}

// A SyntaxError represents a syntax error on a particular line of a
// capture file.
type SyntaxError struct {
	FileName string
	Line     int
	Msg      string
}

func (s *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d: %s", s.FileName, s.Line, s.Msg)
}

var noSample = errors.New("Reader.Scan has not been called")

// NewReader constructs a reader to parse the capture format from r.
// fileName is used in error messages; it is purely diagnostic.
func NewReader(r io.Reader, fileName string) *Reader {
	reader := new(Reader)
	reader.Reset(r, fileName)
	return reader
}

// Reset resets the reader to begin reading from a new input. The new
// input must start with its own header row.
func (r *Reader) Reset(ior io.Reader, fileName string) {
	r.c = csv.NewReader(ior)
	r.c.ReuseRecord = true
	r.c.TrimLeadingSpace = true
	if fileName == "" {
		fileName = "<unknown>"
	}
	r.fileName = fileName
	r.lineNum = 0
	r.err = nil
	r.col = nil
	r.sample = Sample{}
	r.sampleErr = noSample
	if r.interns == nil {
		r.interns = make(map[string]string)
	}
}

// Scan advances the reader to the next sample and reports whether a
// sample was read.
// The caller should use the Sample method to get the sample.
// If Scan reaches EOF, an I/O error occurs, or the header row is
// malformed, it returns false, in which case the caller should use
// the Err method to check for errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}

	if r.col == nil {
		if !r.readHeader() {
			return false
		}
	}

	rec, err := r.c.Read()
	if err == io.EOF {
		return false
	}
	if err != nil {
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			if perr.Err == csv.ErrFieldCount {
				// The row is well-formed CSV; report it
				// as a bad record rather than an I/O
				// failure.
				r.lineNum = perr.Line
				r.sampleErr = &SyntaxError{r.fileName, perr.Line, fmt.Sprintf("expected %d fields, got %d", len(Columns), len(rec))}
				return true
			}
			r.err = &SyntaxError{r.fileName, perr.Line, perr.Err.Error()}
			return false
		}
		r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.lineNum, err)
		return false
	}
	r.lineNum, _ = r.c.FieldPos(0)
	r.sampleErr = r.parseRecord(rec)
	return true
}

// readHeader consumes the header row and checks that it names
// exactly the capture columns.
func (r *Reader) readHeader() bool {
	hdr, err := r.c.Read()
	if err == io.EOF {
		r.err = &SyntaxError{r.fileName, 1, "missing header row"}
		return false
	}
	if err != nil {
		r.err = fmt.Errorf("%s: reading header: %w", r.fileName, err)
		return false
	}
	r.lineNum = 1

	col := make(map[string]int, len(hdr))
	for i, name := range hdr {
		if _, ok := col[name]; ok {
			r.err = &SyntaxError{r.fileName, 1, fmt.Sprintf("duplicate column %q", name)}
			return false
		}
		col[name] = i
	}
	for _, name := range Columns {
		if _, ok := col[name]; !ok {
			r.err = &SyntaxError{r.fileName, 1, fmt.Sprintf("missing column %q", name)}
			return false
		}
	}
	if len(col) != len(Columns) {
		for _, name := range hdr {
			if !isColumn(name) {
				r.err = &SyntaxError{r.fileName, 1, fmt.Sprintf("unexpected column %q", name)}
				return false
			}
		}
	}
	r.col = col
	return true
}

func isColumn(name string) bool {
	for _, c := range Columns {
		if c == name {
			return true
		}
	}
	return false
}

// parseRecord parses one data row into r.sample.
func (r *Reader) parseRecord(rec []string) error {
	field := func(name string) string {
		return rec[r.col[name]]
	}

	exp := field(ColExperiment)
	if exp == "" {
		return &SyntaxError{r.fileName, r.lineNum, "empty experiment name"}
	}

	variant, err := ParseVariant(field(ColVariant))
	if err != nil {
		return &SyntaxError{r.fileName, r.lineNum, err.Error()}
	}

	idx, err := strconv.ParseInt(field(ColFetchIndex), 10, 64)
	if err != nil {
		return &SyntaxError{r.fileName, r.lineNum, "parsing fetch_index: " + numErr(err)}
	}
	if idx < 0 {
		return &SyntaxError{r.fileName, r.lineNum, "negative fetch_index"}
	}

	val, err := strconv.ParseFloat(field(ColValue), 64)
	if err != nil {
		return &SyntaxError{r.fileName, r.lineNum, "parsing value: " + numErr(err)}
	}
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return &SyntaxError{r.fileName, r.lineNum, "value is not finite"}
	}
	if val < 0 {
		return &SyntaxError{r.fileName, r.lineNum, "negative value"}
	}

	r.sample = Sample{
		Experiment: r.intern(exp),
		Variant:    variant,
		FetchIndex: idx,
		Value:      val,
	}
	return nil
}

// numErr strips the strconv prefix, which repeats the input, from a
// number parsing error.
func numErr(err error) string {
	var nerr *strconv.NumError
	if errors.As(err, &nerr) {
		return nerr.Err.Error()
	}
	return err.Error()
}

func (r *Reader) intern(x string) string {
	const maxIntern = 1024
	if s, ok := r.interns[x]; ok {
		return s
	}
	if len(r.interns) >= maxIntern {
		// Evict a random item from the interns table.
		for k := range r.interns {
			delete(r.interns, k)
			break
		}
	}
	r.interns[x] = x
	return x
}

// Sample returns the last sample read, or an error if the row was
// malformed.
//
// Row errors are non-fatal to the Reader, so the caller can continue
// to call Scan. Files treats them as fatal for the whole capture
// directory.
func (r *Reader) Sample() (Sample, error) {
	if r.sampleErr != nil {
		return Sample{}, r.sampleErr
	}
	return r.sample, nil
}

// Err returns the first non-EOF I/O or header error that was
// encountered by the Reader.
func (r *Reader) Err() error {
	return r.err
}
