package common

import (
	"encoding/binary"

	"github.com/gtank/ristretto255"
	"golang.org/x/crypto/sha3"
)

// uniformHash computes SHA3-512 over the length-prefixed domain and parts, so
// that no two distinct (domain, parts) inputs share a preimage.
func uniformHash(domain string, parts ...[]byte) []byte {
	h := sha3.New512()
	var l [8]byte
	binary.LittleEndian.PutUint64(l[:], uint64(len(domain)))
	h.Write(l[:])
	h.Write([]byte(domain))
	for _, p := range parts {
		binary.LittleEndian.PutUint64(l[:], uint64(len(p)))
		h.Write(l[:])
		h.Write(p)
	}
	return h.Sum(nil)
}

// HashToScalar maps the domain and parts to a uniformly distributed
// ristretto255 scalar.
func HashToScalar(domain string, parts ...[]byte) *ristretto255.Scalar {
	s, err := ristretto255.NewScalar().SetUniformBytes(uniformHash(domain, parts...))
	if err != nil {
		panic(err) // SetUniformBytes only fails on input of the wrong length
	}
	return s
}

// HashToElement maps the domain and parts to a group element of which nobody
// knows the discrete logarithm with respect to any other generator.
func HashToElement(domain string, parts ...[]byte) *ristretto255.Element {
	e, err := ristretto255.NewIdentityElement().SetUniformBytes(uniformHash(domain, parts...))
	if err != nil {
		panic(err) // SetUniformBytes only fails on input of the wrong length
	}
	return e
}
