// Package rng provides the randomness capability consumed by proof
// generation. The host application picks an implementation at startup and
// passes it to the prover: OS for native processes, NewHostBridge when
// running inside a sandbox whose host exports the random functions, and
// NewSeeded for reproducible test vectors.
package rng

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/go-errors/errors"
)

// Rng is a cryptographically secure random number generator. Implementations
// must be safe for concurrent use, and concurrent callers must never observe
// the same output.
type Rng interface {
	NextUint32() uint32
	NextUint64() uint64
	// FillBytes fills dst and panics if no entropy is available.
	FillBytes(dst []byte)
	// TryFillBytes fills dst, or returns an error if no entropy is available.
	TryFillBytes(dst []byte) error
}

// ErrEntropyUnavailable is matched by every error returned from TryFillBytes.
var ErrEntropyUnavailable = errors.New("entropy unavailable")

// EntropyError carries the error code reported by the entropy source and,
// for the OS source, the underlying error.
type EntropyError struct {
	Code uint32
	Err  error
}

func (e *EntropyError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("entropy unavailable (code %d): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("entropy unavailable: host error code %d", e.Code)
}

func (e *EntropyError) Unwrap() error {
	return e.Err
}

func (e *EntropyError) Is(target error) bool {
	return target == ErrEntropyUnavailable
}

// ErrorCode extracts the entropy source's error code from err.
func ErrorCode(err error) (uint32, bool) {
	var ee *EntropyError
	if errors.As(err, &ee) {
		return ee.Code, true
	}
	return 0, false
}

// readerRng implements Rng on top of an io.Reader.
type readerRng struct {
	r io.Reader
}

// osErrorCode is reported when the operating system's entropy source fails.
// The OS gives no portable numeric code, so the cause is kept in Err.
const osErrorCode = 1

var osRng = &readerRng{r: rand.Reader}

// OS returns an Rng backed by the operating system's entropy source.
func OS() Rng {
	return osRng
}

func (r *readerRng) NextUint32() uint32 {
	var buf [4]byte
	r.FillBytes(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func (r *readerRng) NextUint64() uint64 {
	var buf [8]byte
	r.FillBytes(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

func (r *readerRng) FillBytes(dst []byte) {
	if err := r.TryFillBytes(dst); err != nil {
		panic(err)
	}
}

func (r *readerRng) TryFillBytes(dst []byte) error {
	if _, err := io.ReadFull(r.r, dst); err != nil {
		return errors.Wrap(&EntropyError{Code: osErrorCode, Err: err}, 0)
	}
	return nil
}

// Reader adapts an Rng to an io.Reader. Reads either fill the whole buffer
// or fail.
func Reader(r Rng) io.Reader {
	return rngReader{r}
}

type rngReader struct {
	rng Rng
}

func (r rngReader) Read(p []byte) (int, error) {
	if err := r.rng.TryFillBytes(p); err != nil {
		return 0, err
	}
	return len(p), nil
}
