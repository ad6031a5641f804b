// Package trace implements procsim.TraceSource against a text instruction
// trace, one instruction per line: hex instruction address, decimal op
// code, two decimal source registers, and a decimal destination register,
// whitespace-separated. Negative register indices mean "no register"; an
// op code of -1 is left for procsim itself to coerce to class 1.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/procsim/procsim"
)

// FileSource reads instruction records from an underlying io.Reader, one
// per line, matching the format the reference trace files use.
type FileSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
}

// Open opens path and returns a FileSource reading from it. The caller
// must call Close when done.
func Open(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", procsim.ErrTraceOpen, err)
	}

	return NewFileSource(f, f), nil
}

// NewFileSource wraps r as a FileSource. closer, if non-nil, is closed by
// Close; pass nil for readers that need no closing (e.g. a bytes.Reader in
// tests).
func NewFileSource(r io.Reader, closer io.Closer) *FileSource {
	return &FileSource{scanner: bufio.NewScanner(r), closer: closer}
}

// Close releases the underlying reader, if it is closable.
func (s *FileSource) Close() error {
	if s.closer == nil {
		return nil
	}

	return s.closer.Close()
}

// Next implements procsim.TraceSource. Blank lines and lines starting
// with '#' are skipped.
func (s *FileSource) Next() (procsim.InstRecord, bool) {
	for s.scanner.Scan() {
		s.line++

		line := strings.TrimSpace(s.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// A malformed line ends the trace the same way a short fscanf
		// read would: silently, as if the file had ended there.
		rec, err := parseLine(line)
		if err != nil {
			return procsim.InstRecord{}, false
		}

		return rec, true
	}

	return procsim.InstRecord{}, false
}

func parseLine(line string) (procsim.InstRecord, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 {
		return procsim.InstRecord{}, fmt.Errorf("expected 5 fields, got %d", len(fields))
	}

	addr, err := strconv.ParseUint(fields[0], 16, 64)
	if err != nil {
		return procsim.InstRecord{}, fmt.Errorf("instruction address: %w", err)
	}

	op, err := strconv.Atoi(fields[1])
	if err != nil {
		return procsim.InstRecord{}, fmt.Errorf("op code: %w", err)
	}

	src0, err := strconv.Atoi(fields[2])
	if err != nil {
		return procsim.InstRecord{}, fmt.Errorf("src0: %w", err)
	}

	src1, err := strconv.Atoi(fields[3])
	if err != nil {
		return procsim.InstRecord{}, fmt.Errorf("src1: %w", err)
	}

	dst, err := strconv.Atoi(fields[4])
	if err != nil {
		return procsim.InstRecord{}, fmt.Errorf("dst: %w", err)
	}

	return procsim.InstRecord{
		InstructionAddress: addr,
		OpCode:             op,
		SrcReg:             [2]int{src0, src1},
		DestReg:            dst,
	}, nil
}
