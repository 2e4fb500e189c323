package investoruid

import (
	"github.com/go-errors/errors"
	"github.com/gtank/ristretto255"

	"github.com/privacybydesign/investoruid/internal/common"
	"github.com/privacybydesign/investoruid/rng"
	"github.com/privacybydesign/investoruid/zkproof"
)

// LegacyProofSize is the size of an encoded LegacyProof.
const LegacyProofSize = 2 * 32

// LegacyProof is the version 1 uniqueness proof: a Schnorr signature on the
// claim (DID and scope) under the public key CddUIDPart - ScopeUIDPart,
// which is u*(G_uid - H_scope) exactly when both commitments hide the same
// UID u. It does not carry the ScopeId, so the verifier must be given the
// one from the claim.
//
// Deprecated: new claims should use ScopeClaimProof. Version 1 only shows
// knowledge of u relative to the combined base, not equality of the two
// openings individually.
type LegacyProof struct {
	Commitment [32]byte
	Response   [32]byte
}

// CreateLegacyProof signs the claim of cdd and scope.
func CreateLegacyProof(cdd CddClaimData, scope ScopeClaimData, rnd rng.Rng) (*LegacyProof, error) {
	u := uidScalar(cdd.uid)
	cddID := ComputeCddID(cdd)
	scopeID := ComputeScopeID(scope)
	cddEl, err := cddID.element()
	if err != nil {
		return nil, err
	}
	scopeEl, err := scopeID.element()
	if err != nil {
		return nil, err
	}

	secret, err := zkproof.NewSecret(secretUID, u, rng.Reader(rnd))
	if err != nil {
		return nil, errors.WrapPrefix(err, "legacy proof", 0)
	}

	bases := legacyBases(cdd.did, scope.scope, cddEl, scopeEl)
	commitments := legacyRelation.CommitmentsFromSecrets(nil, bases, &secret)
	c := v1Challenge(cdd.did, scope.scope, cddID, scopeID, commitments[0])
	response := secret.BuildProof(c)

	proof := &LegacyProof{}
	copy(proof.Commitment[:], commitments[0].Bytes())
	copy(proof.Response[:], response.Result.Bytes())
	return proof, nil
}

// VerifyLegacyProof checks a version 1 proof for the claim (did, scope)
// against the supplied ScopeId and the CddId on record.
func VerifyLegacyProof(proof *LegacyProof, did IdentityID, scope Scope, scopeID ScopeID, cddID CddID) error {
	if proof == nil {
		return verificationFailed("missing proof")
	}
	cddEl, err := cddID.element()
	if err != nil {
		return err
	}
	scopeEl, err := scopeID.element()
	if err != nil {
		return err
	}
	r, err := common.DecodeElement(proof.Commitment[:])
	if err != nil {
		return invalidEncoding("legacy commitment")
	}
	z, err := common.DecodeScalar(proof.Response[:])
	if err != nil {
		return invalidEncoding("legacy response")
	}

	c := v1Challenge(did, scope, cddID, scopeID, r)
	bases := legacyBases(did, scope, cddEl, scopeEl)
	result := zkproof.NewProof(secretUID, z)
	expected := legacyRelation.CommitmentsFromProof(nil, c, bases, &result)
	if expected[0].Equal(r) != 1 {
		return verificationFailed("legacy signature")
	}
	return nil
}

func (p *LegacyProof) Verify(did IdentityID, scope Scope, scopeID ScopeID, cddID CddID) bool {
	return VerifyLegacyProof(p, did, scope, scopeID, cddID) == nil
}

func (p *LegacyProof) MarshalBinary() ([]byte, error) {
	return common.Concat(p.Commitment[:], p.Response[:]), nil
}

func (p *LegacyProof) UnmarshalBinary(data []byte) error {
	if len(data) != LegacyProofSize {
		return errors.WrapPrefix(ErrInvalidEncoding, "legacy proof length", 0)
	}
	copy(p.Commitment[:], data[:32])
	copy(p.Response[:], data[32:])
	return nil
}

func legacyBases(did IdentityID, scope Scope, cddEl, scopeEl *ristretto255.Element) *zkproof.Group {
	base := ristretto255.NewIdentityElement().Subtract(cddUIDBase, scopeUIDBase(scope))
	key := ristretto255.NewIdentityElement().Subtract(cddUIDPart(did, cddEl), scopeUIDPart(scope, scopeEl))
	return zkproof.NewGroup().
		With(baseLegacy, base).
		With(baseLegacyKey, key)
}

func v1Challenge(did IdentityID, scope Scope, cddID CddID, scopeID ScopeID, r *ristretto255.Element) *ristretto255.Scalar {
	t := zkproof.NewTranscript(transcriptV1)
	t.AppendMessage("claim", common.Concat(did[:], scope.Bytes()))
	t.AppendMessage("cdd_id", cddID[:])
	t.AppendMessage("scope_id", scopeID[:])
	t.AppendElements("commitment", r)
	return t.ChallengeScalar(challengeLabel)
}
