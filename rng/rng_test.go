package rng

import (
	"io"
	"sync"
	"testing"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOSFillsBuffers(t *testing.T) {
	r := OS()
	a := make([]byte, 64)
	b := make([]byte, 64)
	require.NoError(t, r.TryFillBytes(a))
	r.FillBytes(b)
	assert.NotEqual(t, make([]byte, 64), a)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, r.NextUint64(), r.NextUint64())
}

func TestSeededReproducible(t *testing.T) {
	var seed [32]byte
	seed[0] = 42
	r1, err := NewSeeded(seed)
	require.NoError(t, err)
	r2, err := NewSeeded(seed)
	require.NoError(t, err)

	assert.Equal(t, r1.NextUint32(), r2.NextUint32())
	assert.Equal(t, r1.NextUint64(), r2.NextUint64())

	a, b := make([]byte, 40), make([]byte, 40)
	r1.FillBytes(a)
	require.NoError(t, r2.TryFillBytes(b))
	assert.Equal(t, a, b)

	seed[0] = 43
	r3, err := NewSeeded(seed)
	require.NoError(t, err)
	c := make([]byte, 40)
	r3.FillBytes(c)
	assert.NotEqual(t, a, c)
}

func TestSeededConcurrentDrawsIndependent(t *testing.T) {
	r, err := NewSeeded([32]byte{1})
	require.NoError(t, err)

	const workers = 16
	results := make([]uint64, workers*32)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 32; i++ {
				results[w*32+i] = r.NextUint64()
			}
		}(w)
	}
	wg.Wait()

	seen := map[uint64]bool{}
	for _, v := range results {
		assert.False(t, seen[v], "value drawn twice")
		seen[v] = true
	}
}

type fakeHost struct {
	code  uint32
	calls int
}

func (h *fakeHost) NextU32() uint32 { h.calls++; return 7 }
func (h *fakeHost) NextU64() uint64 { h.calls++; return 9 }
func (h *fakeHost) FillBytes(dst []byte) {
	h.calls++
	for i := range dst {
		dst[i] = 0xab
	}
}
func (h *fakeHost) TryFillBytes(dst []byte) uint32 {
	h.calls++
	if h.code != 0 {
		return h.code
	}
	h.FillBytes(dst)
	return 0
}

func TestHostBridgeForwards(t *testing.T) {
	host := &fakeHost{}
	b := NewHostBridge(host)
	assert.Equal(t, uint32(7), b.NextUint32())
	assert.Equal(t, uint64(9), b.NextUint64())

	buf := make([]byte, 3)
	require.NoError(t, b.TryFillBytes(buf))
	assert.Equal(t, []byte{0xab, 0xab, 0xab}, buf)
	assert.Equal(t, 4, host.calls)
}

func TestHostBridgeSurfacesErrorCode(t *testing.T) {
	b := NewHostBridge(&fakeHost{code: 0x1234})
	err := b.TryFillBytes(make([]byte, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntropyUnavailable))

	code, ok := ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, uint32(0x1234), code)

	_, ok = ErrorCode(errors.New("other"))
	assert.False(t, ok)
}

type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

func TestReaderRngKeepsCause(t *testing.T) {
	cause := errors.New("getrandom: operation not permitted")
	r := &readerRng{r: failingReader{err: cause}}

	err := r.TryFillBytes(make([]byte, 8))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEntropyUnavailable))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "operation not permitted")

	code, ok := ErrorCode(err)
	require.True(t, ok)
	assert.Equal(t, uint32(osErrorCode), code)

	assert.Panics(t, func() { r.FillBytes(make([]byte, 8)) })

	// host errors have no cause
	err = NewHostBridge(&fakeHost{code: 3}).TryFillBytes(make([]byte, 1))
	var ee *EntropyError
	require.True(t, errors.As(err, &ee))
	assert.NoError(t, ee.Unwrap())
	assert.Equal(t, "entropy unavailable: host error code 3", ee.Error())
}

func TestHostFuncs(t *testing.T) {
	b := NewHostBridge(HostFuncs{
		U32:     func() uint32 { return 1 },
		U64:     func() uint64 { return 2 },
		Fill:    func(dst []byte) { copy(dst, "xyz") },
		TryFill: func(dst []byte) uint32 { return 5 },
	})
	assert.Equal(t, uint32(1), b.NextUint32())
	assert.Equal(t, uint64(2), b.NextUint64())
	buf := make([]byte, 3)
	b.FillBytes(buf)
	assert.Equal(t, []byte("xyz"), buf)
	code, ok := ErrorCode(b.TryFillBytes(buf))
	assert.True(t, ok)
	assert.Equal(t, uint32(5), code)
}

func TestReaderAdapter(t *testing.T) {
	r, err := NewSeeded([32]byte{})
	require.NoError(t, err)
	buf := make([]byte, 100)
	n, err := io.ReadFull(Reader(r), buf)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	failing := Reader(NewHostBridge(&fakeHost{code: 3}))
	_, err = failing.Read(buf)
	assert.True(t, errors.Is(err, ErrEntropyUnavailable))
}
