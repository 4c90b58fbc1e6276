// Package tabular reads the comma-separated call-tree tables. The format is
// deliberately minimal: one record per line, fields split on commas with no
// quoting or escaping, and a single header line that is discarded.
package tabular

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// maxLine bounds a single record. Qualified display strings can get long but
// never anywhere near this.
const maxLine = 1 << 20

// Reader yields the records of one table file, tracking 1-based row numbers
// for error reporting. The header row counts as row 1.
type Reader struct {
	path    string
	file    *os.File
	scanner *bufio.Scanner
	row     int
}

// Open opens the file at path and consumes its header line.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open table: %w", err)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	r := &Reader{path: path, file: f, scanner: sc}
	if sc.Scan() {
		r.row = 1
	}
	// A missing header means an empty file; Next will report no records and
	// Err will carry any scanner error.
	return r, nil
}

// Next returns the fields of the next record, or ok == false at end of input
// or on error. Blank lines are skipped. The trailing newline is never part
// of the last field.
func (r *Reader) Next() (fields []string, ok bool) {
	for r.scanner.Scan() {
		r.row++
		line := strings.TrimSuffix(r.scanner.Text(), "\r")
		if line == "" {
			continue
		}
		return strings.Split(line, ","), true
	}
	return nil, false
}

// Row is the 1-based file row of the record most recently returned by Next.
func (r *Reader) Row() int {
	return r.row
}

// Path is the file this reader was opened on.
func (r *Reader) Path() string {
	return r.path
}

// Err reports any scanning error encountered; io.EOF is not an error.
func (r *Reader) Err() error {
	return r.scanner.Err()
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}
