package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// HeaderReader reads CSV records and resolves columns by header name.
type HeaderReader struct {
	reader *csv.Reader
	header []string
	index  map[string]int
}

// Record is one data row of a HeaderReader.
type Record struct {
	Line   int
	fields []string
	index  map[string]int
	header []string
}

// NewHeaderReader wraps r and consumes the header row. A leading UTF-8 BOM is
// dropped. Quoting is strict: a stray quote fails the read. Empty input yields a reader with no columns and no records.
func NewHeaderReader(r io.Reader) (*HeaderReader, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	h := &HeaderReader{reader: reader, index: map[string]int{}}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return h, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	h.header = header
	for i, name := range header {
		h.index[strings.TrimSpace(name)] = i
	}
	return h, nil
}

// Header returns the column names as read.
func (h *HeaderReader) Header() []string {
	return h.header
}

// Has reports whether the header names the column.
func (h *HeaderReader) Has(column string) bool {
	_, ok := h.index[column]
	return ok
}

// Missing returns the columns absent from the header, in argument order.
func (h *HeaderReader) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !h.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Next returns the next record, or io.EOF when the input is exhausted.
func (h *HeaderReader) Next() (Record, error) {
	if h.header == nil {
		return Record{}, io.EOF
	}

	fields, err := h.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		return Record{}, fmt.Errorf("read csv record: %w", err)
	}

	line, _ := h.reader.FieldPos(0)
	return Record{Line: line, fields: fields, index: h.index, header: h.header}, nil
}

// Get returns the named field, or "" when the column or the field is absent.
func (r Record) Get(column string) string {
	v, _ := r.Lookup(column)
	return v
}

// Lookup returns the named field and whether the row carries it.
func (r Record) Lookup(column string) (string, bool) {
	if pos, ok := r.index[column]; ok && pos < len(r.fields) {
		return r.fields[pos], true
	}
	return "", false
}

// Map returns the row keyed by header name, for diagnostics.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r.header))
	for i, name := range r.header {
		if i < len(r.fields) {
			m[strings.TrimSpace(name)] = r.fields[i]
		}
	}
	return m
}
