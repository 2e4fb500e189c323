package common

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"sync/atomic"
)

// CPRNG is a thread-safe deterministic cryptographically secure pseudo-random
// number generator: AES-256 in counter mode keyed with the seed. Concurrent
// readers reserve disjoint counter ranges, so no two reads ever observe the
// same keystream block.
type CPRNG struct {
	block   cipher.Block
	counter uint64
}

func NewCPRNG(seed *[32]byte) (*CPRNG, error) {
	c, err := aes.NewCipher(seed[:])
	if err != nil {
		return nil, err
	}
	return &CPRNG{block: c}, nil
}

func (c *CPRNG) Read(buf []byte) (n int, err error) {
	var pt, ct [16]byte
	n = len(buf)
	if n == 0 {
		return
	}

	nBlocks := uint64(((len(buf) - 1) / 16) + 1)
	iv := atomic.AddUint64(&c.counter, nBlocks) - nBlocks
	for len(buf) > 0 {
		binary.LittleEndian.PutUint64(pt[:], iv)
		iv++

		if len(buf) >= 16 {
			c.block.Encrypt(buf, pt[:])
			buf = buf[16:]
			continue
		}

		c.block.Encrypt(ct[:], pt[:])
		copy(buf, ct[:len(buf)])
		break
	}
	return
}
