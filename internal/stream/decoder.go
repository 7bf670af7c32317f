package stream

import (
	"bufio"
	"io"
)

// maxLineSize bounds a single response line.
const maxLineSize = 1024 * 1024

// Decoder turns an arbitrarily chunked response body into Events. Partial
// lines are carried across reads, so chunk boundaries need not line up with
// line boundaries.
type Decoder struct {
	scanner *bufio.Scanner
}

// NewDecoder returns a Decoder reading from r.
func NewDecoder(r io.Reader) *Decoder {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Decoder{scanner: sc}
}

// Next returns the next meaningful event. Blank and unrelated lines are
// consumed silently. A *DecodeError is returned for a malformed data line;
// the decoder stays usable and the caller may keep calling Next. io.EOF
// signals the end of the body.
func (d *Decoder) Next() (Event, error) {
	for d.scanner.Scan() {
		ev, err := ParseLine(d.scanner.Text())
		if err != nil {
			return Event{}, err
		}
		if ev.Kind == KindSkip {
			continue
		}
		return ev, nil
	}
	if err := d.scanner.Err(); err != nil {
		return Event{}, err
	}
	return Event{}, io.EOF
}
