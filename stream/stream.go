// Package stream exposes generated samples as an io.Reader.
//
// Samples are produced lazily, one per refill, so an unbounded stream uses
// constant memory:
//
//	r := stream.NewReader(func() (string, error) {
//	    return pattern.Reverse()
//	}, stream.Config{Count: -1, Separator: "\n"})
//	io.Copy(os.Stdout, io.LimitReader(r, 1<<20))
package stream

import (
	"fmt"
	"io"
)

// DefaultCount is the number of samples produced when Config.Count is zero.
const DefaultCount = 10

// Config configures a sample stream.
type Config struct {
	// Count is the number of samples to produce.
	// Default: DefaultCount. Negative means unbounded.
	Count int

	// Separator terminates every sample. Empty means samples are written
	// back to back. DefaultConfig uses "\n".
	Separator string

	// MaxBytes stops the stream once this many bytes have been produced,
	// possibly inside a sample. Zero means no limit.
	MaxBytes int64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Count:     DefaultCount,
		Separator: "\n",
	}
}

// ErrInvalidConfig reports a Config field holding an unusable value.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("stream: invalid %s: %s", e.Field, e.Reason)
}

// Validate validates the Config and returns an error if invalid.
func (c Config) Validate() error {
	if c.MaxBytes < 0 {
		return ErrInvalidConfig{Field: "MaxBytes", Reason: "must not be negative"}
	}
	return nil
}

// ApplyDefaults returns a Config with the default Count applied when Count
// is zero. Separator is kept as given.
func (c Config) ApplyDefaults() Config {
	result := c
	if result.Count == 0 {
		result.Count = DefaultCount
	}
	return result
}

// Reader produces separator-terminated samples from a generator function.
type Reader struct {
	next    func() (string, error)
	cfg     Config
	buf     []byte
	count   int
	written int64
	err     error
}

// NewReader returns a Reader over the samples next produces. Defaults are
// applied to cfg. An error from next is returned by Read once everything
// produced before it has been read.
func NewReader(next func() (string, error), cfg Config) *Reader {
	return &Reader{next: next, cfg: cfg.ApplyDefaults()}
}

// Count returns the number of samples produced so far.
func (r *Reader) Count() int { return r.count }

func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.buf) == 0 && r.err == nil {
		r.fill()
	}
	if len(r.buf) == 0 {
		// nil after an empty sample with no separator
		return 0, r.err
	}

	if r.cfg.MaxBytes > 0 {
		if left := r.cfg.MaxBytes - r.written; int64(len(p)) > left {
			p = p[:left]
		}
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	r.written += int64(n)
	if r.cfg.MaxBytes > 0 && r.written >= r.cfg.MaxBytes {
		r.buf = nil
		r.err = io.EOF
	}
	return n, nil
}

// fill loads the next sample into the buffer or records why it cannot.
func (r *Reader) fill() {
	if r.cfg.Count >= 0 && r.count >= r.cfg.Count {
		r.err = io.EOF
		return
	}
	s, err := r.next()
	if err != nil {
		r.err = fmt.Errorf("stream: sample %d: %w", r.count+1, err)
		return
	}
	r.count++
	r.buf = append(r.buf[:0], s...)
	r.buf = append(r.buf, r.cfg.Separator...)
}
