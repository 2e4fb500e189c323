package investoruid

import (
	"github.com/go-errors/errors"
	"github.com/gtank/ristretto255"

	"github.com/privacybydesign/investoruid/internal/common"
	"github.com/privacybydesign/investoruid/rng"
	"github.com/privacybydesign/investoruid/zkproof"
)

// ScopeClaimProofSize is the size of an encoded ScopeClaimProof.
const ScopeClaimProofSize = 4 * 32

// ScopeClaimProof is a version 2 proof that a ScopeId and the CddId of an
// identity commit to the same investor UID. It is a Chaum-Pedersen proof of
// equality of the discrete logarithms of CddId - d*G_did to base G_uid and
// of ScopeId - s*G_scope to base H_scope.
type ScopeClaimProof struct {
	ScopeID         ScopeID
	CddCommitment   [32]byte
	ScopeCommitment [32]byte
	Response        [32]byte
}

// CreateScopeClaimProof proves that the CddId of cdd and the ScopeId of
// scope hide the same UID. Both claim data must carry the same UID for the
// proof to verify; this is not checked here.
func CreateScopeClaimProof(cdd CddClaimData, scope ScopeClaimData, rnd rng.Rng) (*ScopeClaimProof, error) {
	u := uidScalar(cdd.uid)
	cddID := ComputeCddID(cdd)
	scopeID := ComputeScopeID(scope)
	scopeEl, err := scopeID.element()
	if err != nil {
		return nil, err
	}

	secret, err := zkproof.NewSecret(secretUID, u, rng.Reader(rnd))
	if err != nil {
		return nil, errors.WrapPrefix(err, "scope claim proof", 0)
	}

	bases := v2Bases(scope.scope, ristretto255.NewIdentityElement().ScalarMult(u, cddUIDBase), scopeUIDPart(scope.scope, scopeEl))
	commitments := cddRelation.CommitmentsFromSecrets(nil, bases, &secret)
	commitments = scopeRelation.CommitmentsFromSecrets(commitments, bases, &secret)

	c := v2Challenge(cdd.did, scope.scope, cddID, scopeID, commitments[0], commitments[1])
	response := secret.BuildProof(c)

	proof := &ScopeClaimProof{ScopeID: scopeID}
	copy(proof.CddCommitment[:], commitments[0].Bytes())
	copy(proof.ScopeCommitment[:], commitments[1].Bytes())
	copy(proof.Response[:], response.Result.Bytes())
	return proof, nil
}

// VerifyScopeClaimProof checks proof against the identity did, the scope and
// the CddId on record for did. It returns nil on success, an error wrapping
// ErrInvalidEncoding if any point or scalar does not decode, and an error
// wrapping ErrVerificationFailed otherwise.
func VerifyScopeClaimProof(proof *ScopeClaimProof, did IdentityID, scope Scope, cddID CddID) error {
	if proof == nil {
		return verificationFailed("missing proof")
	}
	cddEl, err := cddID.element()
	if err != nil {
		return err
	}
	scopeEl, err := proof.ScopeID.element()
	if err != nil {
		return err
	}
	r1, err := common.DecodeElement(proof.CddCommitment[:])
	if err != nil {
		return invalidEncoding("cdd commitment")
	}
	r2, err := common.DecodeElement(proof.ScopeCommitment[:])
	if err != nil {
		return invalidEncoding("scope commitment")
	}
	z, err := common.DecodeScalar(proof.Response[:])
	if err != nil {
		return invalidEncoding("response")
	}

	c := v2Challenge(did, scope, cddID, proof.ScopeID, r1, r2)
	bases := v2Bases(scope, cddUIDPart(did, cddEl), scopeUIDPart(scope, scopeEl))
	result := zkproof.NewProof(secretUID, z)
	expected := cddRelation.CommitmentsFromProof(nil, c, bases, &result)
	expected = scopeRelation.CommitmentsFromProof(expected, c, bases, &result)

	if expected[0].Equal(r1) != 1 {
		return verificationFailed("cdd id")
	}
	if expected[1].Equal(r2) != 1 {
		return verificationFailed("scope id")
	}
	return nil
}

// Verify is the boolean form of VerifyScopeClaimProof.
func (p *ScopeClaimProof) Verify(did IdentityID, scope Scope, cddID CddID) bool {
	return VerifyScopeClaimProof(p, did, scope, cddID) == nil
}

func (p *ScopeClaimProof) MarshalBinary() ([]byte, error) {
	return common.Concat(p.ScopeID[:], p.CddCommitment[:], p.ScopeCommitment[:], p.Response[:]), nil
}

// UnmarshalBinary only checks the length; point and scalar encodings are
// checked during verification.
func (p *ScopeClaimProof) UnmarshalBinary(data []byte) error {
	if len(data) != ScopeClaimProofSize {
		return errors.WrapPrefix(ErrInvalidEncoding, "scope claim proof length", 0)
	}
	copy(p.ScopeID[:], data[0:32])
	copy(p.CddCommitment[:], data[32:64])
	copy(p.ScopeCommitment[:], data[64:96])
	copy(p.Response[:], data[96:128])
	return nil
}

func v2Bases(scope Scope, cddPart, scopePart *ristretto255.Element) *zkproof.BaseMerge {
	claim := zkproof.NewGroup().
		With(baseScopeUID, scopeUIDBase(scope)).
		With(baseCddPart, cddPart).
		With(baseScopePart, scopePart)
	bases := zkproof.NewBaseMerge(fixedBases, claim)
	return &bases
}

func v2Challenge(did IdentityID, scope Scope, cddID CddID, scopeID ScopeID, r1, r2 *ristretto255.Element) *ristretto255.Scalar {
	t := zkproof.NewTranscript(transcriptV2)
	t.AppendMessage("did", did[:])
	t.AppendMessage("scope", scope.Bytes())
	t.AppendMessage("cdd_id", cddID[:])
	t.AppendMessage("scope_id", scopeID[:])
	t.AppendElements("commitment", r1, r2)
	return t.ChallengeScalar(challengeLabel)
}
