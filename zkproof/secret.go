package zkproof

import (
	"io"

	"github.com/gtank/ristretto255"
	"github.com/privacybydesign/investoruid/internal/common"
)

type (
	// Secret is a named witness together with the randomizer hiding it in
	// the Schnorr commitment.
	Secret struct {
		name       string
		secret     *ristretto255.Scalar
		randomizer *ristretto255.Scalar
	}

	// Proof is the response for a single secret.
	Proof struct {
		name   string
		Result *ristretto255.Scalar
	}
)

// NewSecret draws a fresh randomizer for value from rnd.
func NewSecret(name string, value *ristretto255.Scalar, rnd io.Reader) (Secret, error) {
	randomizer, err := common.RandomScalar(rnd)
	if err != nil {
		return Secret{}, err
	}
	return Secret{
		name:       name,
		secret:     ristretto255.NewScalar().Add(value, ristretto255.NewScalar()),
		randomizer: randomizer,
	}, nil
}

// BuildProof computes the response randomizer - challenge*secret.
func (s *Secret) BuildProof(challenge *ristretto255.Scalar) Proof {
	cx := ristretto255.NewScalar().Multiply(challenge, s.secret)
	return Proof{
		name:   s.name,
		Result: ristretto255.NewScalar().Subtract(s.randomizer, cx),
	}
}

func (s *Secret) Randomizer(name string) *ristretto255.Scalar {
	if name == s.name {
		return s.randomizer
	}
	return nil
}

// NewProof names a response received from a prover.
func NewProof(name string, result *ristretto255.Scalar) Proof {
	return Proof{name: name, Result: result}
}

func (p *Proof) ProofResult(name string) *ristretto255.Scalar {
	if name == p.name {
		return p.Result
	}
	return nil
}
