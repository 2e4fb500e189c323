// Package cbor encodes registry records and signed CDD attestations as
// CBOR in the core deterministic encoding of RFC 8949, so that equal values
// always yield equal bytes and signatures over them are reproducible.
// Decoding rejects duplicate map keys, indefinite lengths and tags.
package cbor

import (
	"github.com/fxamacker/cbor/v2" // imports as cbor
	"github.com/go-errors/errors"
)

const (
	MaxArrayElements = 1 << 16
	MaxMapPairs      = 1 << 10
	MaxNestedLevels  = 16
)

var (
	encOptions = cbor.EncOptions{
		Sort:          cbor.SortCoreDeterministic,
		IndefLength:   cbor.IndefLengthForbidden,
		ShortestFloat: cbor.ShortestFloat16,
		NaNConvert:    cbor.NaNConvert7e00,
		InfConvert:    cbor.InfConvertFloat16,

		// Timestamps are plain integers of seconds since the epoch
		Time:    cbor.TimeUnix,
		TimeTag: cbor.EncTagNone,
		TagsMd:  cbor.TagsForbidden,
	}

	decOptions = cbor.DecOptions{
		IndefLength:      cbor.IndefLengthForbidden,
		DupMapKey:        cbor.DupMapKeyEnforcedAPF,
		MaxArrayElements: MaxArrayElements,
		MaxMapPairs:      MaxMapPairs,
		MaxNestedLevels:  MaxNestedLevels,
		TagsMd:           cbor.TagsForbidden,
		TimeTag:          cbor.DecTagIgnored,
		// Unknown fields are tolerated so that newer records remain readable
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}

	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	if encMode, err = encOptions.EncMode(); err != nil {
		panic(err)
	}
	if decMode, err = decOptions.DecMode(); err != nil {
		panic(err)
	}
}

// Marshal encodes src deterministically.
func Marshal(src interface{}) ([]byte, error) {
	bts, err := encMode.Marshal(src)
	if err != nil {
		return nil, errors.WrapPrefix(err, "cbor encoding failed", 0)
	}
	return bts, nil
}

// Unmarshal decodes data into dst.
func Unmarshal(data []byte, dst interface{}) error {
	if err := decMode.Unmarshal(data, dst); err != nil {
		return errors.WrapPrefix(err, "cbor decoding failed", 0)
	}
	return nil
}

// Wellformed checks that data is exactly one well-formed CBOR data item
// acceptable to Unmarshal.
func Wellformed(data []byte) error {
	return decMode.Wellformed(data)
}
