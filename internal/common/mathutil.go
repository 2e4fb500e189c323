package common

import (
	"encoding/binary"
	"io"

	"github.com/go-errors/errors"
	"github.com/gtank/ristretto255"
)

// ScalarFromInt64 returns the scalar congruent to v modulo the group order.
func ScalarFromInt64(v int64) *ristretto255.Scalar {
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(v))
	s, err := ristretto255.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		panic(err) // values below 2^64 are always canonical
	}
	if neg {
		s.Negate(s)
	}
	return s
}

// RandomScalar draws 64 bytes from rnd and reduces them to a uniformly
// distributed scalar.
func RandomScalar(rnd io.Reader) (*ristretto255.Scalar, error) {
	var buf [64]byte
	if _, err := io.ReadFull(rnd, buf[:]); err != nil {
		return nil, err
	}
	s, err := ristretto255.NewScalar().SetUniformBytes(buf[:])
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to reduce random scalar", 0)
	}
	return s, nil
}

// DecodeElement decodes a canonical 32-byte ristretto255 encoding.
func DecodeElement(bts []byte) (*ristretto255.Element, error) {
	if len(bts) != 32 {
		return nil, errors.Errorf("element encoding has length %d, expected 32", len(bts))
	}
	return ristretto255.NewIdentityElement().SetCanonicalBytes(bts)
}

// DecodeScalar decodes a canonical 32-byte little-endian scalar.
func DecodeScalar(bts []byte) (*ristretto255.Scalar, error) {
	if len(bts) != 32 {
		return nil, errors.Errorf("scalar encoding has length %d, expected 32", len(bts))
	}
	return ristretto255.NewScalar().SetCanonicalBytes(bts)
}
