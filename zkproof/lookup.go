package zkproof

import "github.com/gtank/ristretto255"

type (
	BaseLookup interface {
		Base(name string) *ristretto255.Element
		ScalarMult(ret *ristretto255.Element, name string, s *ristretto255.Scalar) bool
		Names() []string
	}

	SecretLookup interface {
		Randomizer(name string) *ristretto255.Scalar
	}

	ProofLookup interface {
		ProofResult(name string) *ristretto255.Scalar
	}

	// BaseMerge looks names up in each of its parts in turn.
	BaseMerge struct {
		parts  []BaseLookup
		inames []string
	}
)

func NewBaseMerge(parts ...BaseLookup) BaseMerge {
	var result BaseMerge
	result.parts = parts
	for _, part := range parts {
		result.inames = append(result.inames, part.Names()...)
	}
	return result
}

func (b *BaseMerge) Names() []string {
	return b.inames
}

func (b *BaseMerge) Base(name string) *ristretto255.Element {
	for _, part := range b.parts {
		res := part.Base(name)
		if res != nil {
			return res
		}
	}
	return nil
}

func (b *BaseMerge) ScalarMult(ret *ristretto255.Element, name string, s *ristretto255.Scalar) bool {
	for _, part := range b.parts {
		if part.ScalarMult(ret, name, s) {
			return true
		}
	}
	return false
}
