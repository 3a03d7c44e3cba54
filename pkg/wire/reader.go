package wire

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxRequestBytes bounds a request when no explicit limit is given.
const DefaultMaxRequestBytes = 64 << 10

const readChunkSize = 4 << 10

// ReadRequest reads one request from r.
//
// It keeps reading until the header section has been terminated and, when a
// Content-Length header is present, the declared number of body bytes has
// arrived. A peer that closes its write side early yields whatever was read
// so far. More than maxBytes of input returns ErrRequestTooLarge.
func ReadRequest(r io.Reader, maxBytes int) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBytes
	}

	buf := make([]byte, 0, min(readChunkSize, maxBytes))
	chunk := make([]byte, readChunkSize)
	var frame frameScanner
	for {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if len(buf) > maxBytes {
			return nil, fmt.Errorf("%w: read %d bytes, limit %d", ErrRequestTooLarge, len(buf), maxBytes)
		}

		want, done := frame.scan(buf)
		if want > maxBytes {
			return nil, fmt.Errorf("%w: declared length exceeds limit %d", ErrRequestTooLarge, maxBytes)
		}
		if done {
			return buf, nil
		}

		if errors.Is(err, io.EOF) {
			return buf, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// frameScanner finds the end of a request as bytes arrive. Each call to scan
// resumes after the last complete line it has seen.
type frameScanner struct {
	pos           int // start of the first unscanned line
	started       bool
	headersDone   bool
	contentLength int
	total         int
}

// scan reports the total size of the request once known, and whether buf
// already holds all of it. buf must extend the buffer of the previous call.
// The header section ends at the first complete line after the request line
// that has no ": " separator, which matches Parse. A declared length that
// cannot be represented saturates at math.MaxInt.
func (s *frameScanner) scan(buf []byte) (int, bool) {
	for !s.headersDone {
		next := bytes.IndexByte(buf[s.pos:], '\n')
		if next < 0 {
			return 0, false
		}
		line := buf[s.pos : s.pos+next]
		s.pos += next + 1

		if !s.started {
			s.started = true
			continue
		}
		name, value, ok := bytes.Cut(line, []byte(": "))
		if !ok {
			s.headersDone = true
			break
		}
		if strings.EqualFold(string(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(string(value)))
			if (err == nil || errors.Is(err, strconv.ErrRange)) && n >= 0 {
				s.contentLength = n
			}
		}
	}

	if s.total == 0 {
		s.total = s.pos
		if s.contentLength > math.MaxInt-s.pos {
			s.total = math.MaxInt
		} else {
			s.total += s.contentLength
		}
	}
	return s.total, len(buf) >= s.total
}
