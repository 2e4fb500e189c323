// Package scale implements the subset of the ledger's length-prefixed binary
// wire format needed for proofs and claims: compact-encoded unsigned integers,
// length-prefixed byte strings and fixed-size arrays.
package scale

import (
	"encoding/binary"
	"math/bits"

	"github.com/go-errors/errors"
)

var ErrTruncated = errors.New("unexpected end of input")

// Encoder accumulates an encoding in memory.
type Encoder struct {
	buf []byte
}

func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) PutUint8(v uint8) {
	e.buf = append(e.buf, v)
}

// PutCompact appends v in compact form: the two low bits of the first byte
// select a 1, 2 or 4 byte little-endian encoding, or a length-prefixed
// big-integer mode for larger values.
func (e *Encoder) PutCompact(v uint64) {
	switch {
	case v < 1<<6:
		e.buf = append(e.buf, byte(v<<2))
	case v < 1<<14:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(v<<2|0b01))
	case v < 1<<30:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(v<<2|0b10))
	default:
		n := (bits.Len64(v) + 7) / 8
		e.buf = append(e.buf, byte((n-4)<<2|0b11))
		for i := 0; i < n; i++ {
			e.buf = append(e.buf, byte(v>>(8*i)))
		}
	}
}

// PutBytes appends bts prefixed with its compact-encoded length.
func (e *Encoder) PutBytes(bts []byte) {
	e.PutCompact(uint64(len(bts)))
	e.buf = append(e.buf, bts...)
}

// PutFixed appends bts without a length prefix.
func (e *Encoder) PutFixed(bts []byte) {
	e.buf = append(e.buf, bts...)
}

// Decoder consumes an encoding produced by Encoder.
type Decoder struct {
	buf []byte
}

func NewDecoder(bts []byte) *Decoder {
	return &Decoder{buf: bts}
}

func (d *Decoder) Uint8() (uint8, error) {
	if len(d.buf) < 1 {
		return 0, ErrTruncated
	}
	v := d.buf[0]
	d.buf = d.buf[1:]
	return v, nil
}

func (d *Decoder) Compact() (uint64, error) {
	if len(d.buf) < 1 {
		return 0, ErrTruncated
	}
	switch d.buf[0] & 0b11 {
	case 0b00:
		v := uint64(d.buf[0] >> 2)
		d.buf = d.buf[1:]
		return v, nil
	case 0b01:
		if len(d.buf) < 2 {
			return 0, ErrTruncated
		}
		v := uint64(binary.LittleEndian.Uint16(d.buf) >> 2)
		d.buf = d.buf[2:]
		if v < 1<<6 {
			return 0, errors.New("non-canonical compact encoding")
		}
		return v, nil
	case 0b10:
		if len(d.buf) < 4 {
			return 0, ErrTruncated
		}
		v := uint64(binary.LittleEndian.Uint32(d.buf) >> 2)
		d.buf = d.buf[4:]
		if v < 1<<14 {
			return 0, errors.New("non-canonical compact encoding")
		}
		return v, nil
	default:
		n := int(d.buf[0]>>2) + 4
		if n > 8 {
			return 0, errors.Errorf("compact integer of %d bytes does not fit in 64 bits", n)
		}
		if len(d.buf) < 1+n {
			return 0, ErrTruncated
		}
		var v uint64
		for i := 0; i < n; i++ {
			v |= uint64(d.buf[1+i]) << (8 * i)
		}
		d.buf = d.buf[1+n:]
		if v < 1<<30 || (n > 4 && v>>(8*(n-1)) == 0) {
			return 0, errors.New("non-canonical compact encoding")
		}
		return v, nil
	}
}

// Bytes reads a compact length prefix followed by that many bytes. The
// returned slice aliases the input.
func (d *Decoder) Bytes() ([]byte, error) {
	l, err := d.Compact()
	if err != nil {
		return nil, err
	}
	return d.Fixed(l)
}

// Fixed reads exactly n bytes.
func (d *Decoder) Fixed(n uint64) ([]byte, error) {
	if uint64(len(d.buf)) < n {
		return nil, ErrTruncated
	}
	v := d.buf[:n]
	d.buf = d.buf[n:]
	return v, nil
}

// Finish returns an error if unread input is left over.
func (d *Decoder) Finish() error {
	if len(d.buf) != 0 {
		return errors.Errorf("%d trailing bytes", len(d.buf))
	}
	return nil
}
