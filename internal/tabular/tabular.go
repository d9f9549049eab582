// Package tabular reads and writes the headerless tab-delimited row format.
package tabular

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/mohit83k/bngclients/internal/model"
)

// ReadRows parses r into rows of exactly len(model.Columns) fields.
// A leading UTF-8 byte order mark is dropped. Blank lines are skipped;
// any other shape mismatch fails the whole read.
func ReadRows(r io.Reader) ([]model.Row, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		_, _ = br.Discard(len(bom))
	}

	cr := csv.NewReader(br)
	cr.Comma = '\t'
	cr.FieldsPerRecord = len(model.Columns)
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	var rows []model.Row
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, model.Malformed("Error processing file.", err)
		}
		for _, f := range fields {
			if !utf8.ValidString(f) {
				line, _ := cr.FieldPos(0)
				return nil, model.Malformed("Error processing file.", fmt.Errorf("line %d: invalid UTF-8", line))
			}
		}
		rows = append(rows, model.Row{Number: len(rows) + 1, Fields: fields})
	}
	return rows, nil
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// Writer emits tab-delimited lines without a header.
type Writer struct {
	cw *csv.Writer
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{cw: cw}
}

// Write appends one line.
func (w *Writer) Write(fields []string) error {
	return w.cw.Write(fields)
}

// Flush writes buffered lines and returns any write error.
func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

// WriteRows writes rows to w byte for byte, tab-joined, one per line.
// Fields are never quoted, so rows read by ReadRows come back unchanged.
func WriteRows(w io.Writer, rows [][]string) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := bw.WriteString(strings.Join(r, "\t") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}
