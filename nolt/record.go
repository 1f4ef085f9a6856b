// Package nolt reads and writes .nolt training-pair files: one JSON
// object per line, each pairing a natural-language intent with the
// assembly and binary encoding of a program that implements it.
package nolt

import (
	"bufio"
	"bytes"
	"io"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Record is a single line of a .nolt file.
type Record struct {
	Intent    string    `json:"intent"`
	Assembly  string    `json:"assembly"`
	BinaryB64 string    `json:"binary_b64"`
	Contracts []string  `json:"contracts,omitempty"`
	Witnesses []Witness `json:"witnesses,omitempty"`
}

// ReadAll reads every record from r, one JSON object per line. Blank
// lines are skipped.
func ReadAll(r io.Reader) ([]Record, error) {
	var records []Record
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		if len(bytes.TrimSpace(b)) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(b, &rec); err != nil {
			return nil, errors.Wrapf(err, "nolt: line %d", line)
		}
		records = append(records, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "nolt: read failed")
	}
	return records, nil
}

// WriteAll writes records to w, one JSON object per line.
func WriteAll(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return errors.Wrap(err, "nolt: write failed")
		}
	}
	return bw.Flush()
}
