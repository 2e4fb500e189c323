package zkproof

import (
	"fmt"

	"github.com/gtank/ristretto255"
	"github.com/privacybydesign/investoruid/internal/common"
)

type (
	LhsContribution struct {
		Base  string
		Power *ristretto255.Scalar
	}

	RhsContribution struct {
		Base   string
		Secret string
		Power  int64
	}

	// RepresentationProofStructure describes the relation
	//   sum(Lhs.Power * Lhs.Base) = sum(Rhs.Power * Rhs.Secret * Rhs.Base)
	// in additive notation, of which the prover knows the secrets.
	RepresentationProofStructure struct {
		Lhs []LhsContribution
		Rhs []RhsContribution
	}
)

func mustScalarMult(ret *ristretto255.Element, bases BaseLookup, name string, s *ristretto255.Scalar) {
	if !bases.ScalarMult(ret, name, s) {
		panic(fmt.Sprintf("missing base %q", name))
	}
}

// CommitmentsFromSecrets appends the Schnorr commitment sum(Power * randomizer * Base).
func (s *RepresentationProofStructure) CommitmentsFromSecrets(list []*ristretto255.Element, bases BaseLookup, secretdata SecretLookup) []*ristretto255.Element {
	commitment := ristretto255.NewIdentityElement()
	var exp ristretto255.Scalar
	var contribution ristretto255.Element

	for _, curRhs := range s.Rhs {
		exp.Multiply(common.ScalarFromInt64(curRhs.Power), secretdata.Randomizer(curRhs.Secret))
		mustScalarMult(&contribution, bases, curRhs.Base, &exp)
		commitment.Add(commitment, &contribution)
	}

	return append(list, commitment)
}

// CommitmentsFromProof reconstructs the Schnorr commitment from the responses:
// challenge * lhs + sum(Power * result * Base).
func (s *RepresentationProofStructure) CommitmentsFromProof(list []*ristretto255.Element, challenge *ristretto255.Scalar, bases BaseLookup, proofdata ProofLookup) []*ristretto255.Element {
	lhs := s.lhs(bases)

	commitment := ristretto255.NewIdentityElement().ScalarMult(challenge, lhs)
	var exp ristretto255.Scalar
	var contribution ristretto255.Element
	for _, curRhs := range s.Rhs {
		exp.Multiply(common.ScalarFromInt64(curRhs.Power), proofdata.ProofResult(curRhs.Secret))
		mustScalarMult(&contribution, bases, curRhs.Base, &exp)
		commitment.Add(commitment, &contribution)
	}

	return append(list, commitment)
}

func (s *RepresentationProofStructure) lhs(bases BaseLookup) *ristretto255.Element {
	lhs := ristretto255.NewIdentityElement()
	var contribution ristretto255.Element
	for _, curLhs := range s.Lhs {
		mustScalarMult(&contribution, bases, curLhs.Base, curLhs.Power)
		lhs.Add(lhs, &contribution)
	}
	return lhs
}
