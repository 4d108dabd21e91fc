package lcioevt

import (
	"errors"
	"fmt"
	"io"

	"go-hep.org/x/hep/lcio"
)

// Reader iterates over the events of an LCIO file.
type Reader struct {
	r    *lcio.Reader
	opts Options
	evt  lcio.Event
	cur  *Event
}

// Open opens the LCIO file at path.
func Open(path string, opts Options) (*Reader, error) {
	r, err := lcio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lcioevt: could not open %q: %w", path, err)
	}
	return &Reader{r: r, opts: opts}, nil
}

// Next advances to the next event.
func (r *Reader) Next() bool {
	if !r.r.Next() {
		r.cur = nil
		return false
	}
	r.evt = r.r.Event()
	r.cur = NewEvent(&r.evt, r.opts)
	return true
}

// Event returns the current event. It is valid until the next call to
// Next.
func (r *Reader) Event() *Event { return r.cur }

// Err returns the first error met while reading, ignoring end of file.
func (r *Reader) Err() error {
	err := r.r.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return fmt.Errorf("lcioevt: could not read LCIO file: %w", err)
}

func (r *Reader) Close() error {
	return r.r.Close()
}
