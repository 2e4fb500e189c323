package zkproof_test

import (
	"testing"

	"github.com/gtank/ristretto255"
	"github.com/privacybydesign/investoruid/internal/common"
	"github.com/privacybydesign/investoruid/zkproof"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RepTestSecret struct {
	randomizers map[string]*ristretto255.Scalar
}

func (rs *RepTestSecret) Randomizer(name string) *ristretto255.Scalar {
	return rs.randomizers[name]
}

type RepTestProof struct {
	results map[string]*ristretto255.Scalar
}

func (rp *RepTestProof) ProofResult(name string) *ristretto255.Scalar {
	return rp.results[name]
}

func sc(v int64) *ristretto255.Scalar {
	return common.ScalarFromInt64(v)
}

func testGroup() *zkproof.Group {
	return zkproof.NewGroup().
		With("g", common.HashToElement("test/g")).
		With("h", common.HashToElement("test/h"))
}

func mul(v int64, base *ristretto255.Element) *ristretto255.Element {
	return ristretto255.NewIdentityElement().ScalarMult(sc(v), base)
}

func TestRepresentationProofBasics(t *testing.T) {
	g := testGroup()
	x := g.Base("g")

	var s zkproof.RepresentationProofStructure
	s.Lhs = []zkproof.LhsContribution{{Base: "x", Power: sc(1)}}
	s.Rhs = []zkproof.RhsContribution{{Base: "g", Secret: "x", Power: 1}}

	// x = 1*g, randomizer 15, challenge 1: response 15 - 1 = 14
	commits := zkproof.NewGroup().With("x", x)
	bases := zkproof.NewBaseMerge(g, commits)

	secret := RepTestSecret{
		randomizers: map[string]*ristretto255.Scalar{"x": sc(15)},
	}
	proof := RepTestProof{results: map[string]*ristretto255.Scalar{"x": sc(14)}}

	assert.Equal(t, []string{"g", "h", "x"}, bases.Names())
	assert.Equal(t, x, bases.Base("x"))
	assert.Nil(t, bases.Base("y"))

	listSecrets := s.CommitmentsFromSecrets(nil, &bases, &secret)
	listProofs := s.CommitmentsFromProof(nil, sc(1), &bases, &proof)
	require.Len(t, listSecrets, 1)
	assert.Equal(t, listSecrets[0].Bytes(), listProofs[0].Bytes(), "commitment lists different")
}

func TestRepresentationProofComplex(t *testing.T) {
	g := testGroup()

	// 4*c = 2*x*g + 3*y*h with x = 4, y = 16 does not hold, c itself does
	var s zkproof.RepresentationProofStructure
	s.Lhs = []zkproof.LhsContribution{{Base: "c", Power: sc(4)}}
	s.Rhs = []zkproof.RhsContribution{
		{Base: "g", Secret: "x", Power: 2},
		{Base: "h", Secret: "y", Power: 3},
	}

	secret := RepTestSecret{
		randomizers: map[string]*ristretto255.Scalar{"x": sc(12), "y": sc(21)},
	}
	c := ristretto255.NewIdentityElement().Add(mul(2*4, g.Base("g")), mul(3*16, g.Base("h")))
	commits := zkproof.NewGroup().With("c", c)
	bases := zkproof.NewBaseMerge(g, commits)

	challenge := sc(7)
	proof := RepTestProof{results: map[string]*ristretto255.Scalar{
		"x": ristretto255.NewScalar().Subtract(sc(12), ristretto255.NewScalar().Multiply(challenge, sc(4))),
		"y": ristretto255.NewScalar().Subtract(sc(21), ristretto255.NewScalar().Multiply(challenge, sc(16))),
	}}

	listSecrets := s.CommitmentsFromSecrets(nil, &bases, &secret)
	listProofs := s.CommitmentsFromProof(nil, challenge, &bases, &proof)
	assert.NotEqual(t, listSecrets[0].Bytes(), listProofs[0].Bytes(), "lhs is scaled by 4")

	s.Lhs[0].Power = sc(1)
	listProofs = s.CommitmentsFromProof(nil, challenge, &bases, &proof)
	assert.Equal(t, listSecrets[0].Bytes(), listProofs[0].Bytes(), "commitment lists different")

	proof.results["y"] = sc(0)
	listProofs = s.CommitmentsFromProof(nil, challenge, &bases, &proof)
	assert.NotEqual(t, listSecrets[0].Bytes(), listProofs[0].Bytes(), "wrong response accepted")
}

func TestSecretBuildProof(t *testing.T) {
	g := testGroup()
	rnd, err := common.NewCPRNG(&[32]byte{9})
	require.NoError(t, err)

	x, err := zkproof.NewSecret("x", sc(1234), rnd)
	require.NoError(t, err)
	y, err := zkproof.NewSecret("y", sc(99), rnd)
	require.NoError(t, err)
	secrets := RepTestSecret{randomizers: map[string]*ristretto255.Scalar{
		"x": x.Randomizer("x"),
		"y": y.Randomizer("y"),
	}}

	// p = x*g + y*h
	p := ristretto255.NewIdentityElement().Add(mul(1234, g.Base("g")), mul(99, g.Base("h")))
	bases := zkproof.NewBaseMerge(g, zkproof.NewGroup().With("p", p))

	s := zkproof.RepresentationProofStructure{
		Lhs: []zkproof.LhsContribution{{Base: "p", Power: sc(1)}},
		Rhs: []zkproof.RhsContribution{
			{Base: "g", Secret: "x", Power: 1},
			{Base: "h", Secret: "y", Power: 1},
		},
	}
	commitments := s.CommitmentsFromSecrets(nil, &bases, &secrets)
	tr := zkproof.NewTranscript("test")
	tr.AppendElements("commitment", commitments...)
	challenge := tr.ChallengeScalar("challenge")

	px, py := x.BuildProof(challenge), y.BuildProof(challenge)
	proofs := RepTestProof{results: map[string]*ristretto255.Scalar{
		"x": px.ProofResult("x"),
		"y": py.ProofResult("y"),
	}}
	reconstructed := s.CommitmentsFromProof(nil, challenge, &bases, &proofs)
	assert.Equal(t, commitments[0].Bytes(), reconstructed[0].Bytes())

	// responses are only valid under their own names
	assert.Nil(t, px.ProofResult("y"))
	renamed := zkproof.NewProof("y", px.Result)
	assert.Equal(t, px.Result, renamed.ProofResult("y"))
}

func TestMissingBasePanics(t *testing.T) {
	s := zkproof.RepresentationProofStructure{
		Lhs: []zkproof.LhsContribution{{Base: "nope", Power: sc(1)}},
	}
	bases := zkproof.NewBaseMerge(testGroup())
	assert.Panics(t, func() {
		s.CommitmentsFromProof(nil, sc(1), &bases, &RepTestProof{})
	})
}
