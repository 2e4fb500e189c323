package investoruid

import (
	"github.com/gtank/ristretto255"

	"github.com/privacybydesign/investoruid/internal/common"
	"github.com/privacybydesign/investoruid/zkproof"
)

// Fixed generators. Nobody knows their discrete logarithms relative to each
// other or to the ristretto255 base point.
var (
	cddDIDBase   = common.HashToElement("investoruid/cdd/did")
	cddUIDBase   = common.HashToElement("investoruid/cdd/uid")
	scopeValBase = common.HashToElement("investoruid/scope/base")
)

// fixedBases holds the generators shared by every claim.
var fixedBases = zkproof.NewGroup().With(baseCddUID, cddUIDBase)

// scopeUIDBase returns the generator carrying the UID in ScopeIds of scope.
func scopeUIDBase(scope Scope) *ristretto255.Element {
	return common.HashToElement("investoruid/scope/uid", scope.Bytes())
}

func didScalar(did IdentityID) *ristretto255.Scalar {
	return common.HashToScalar("investoruid/did", did[:])
}

func uidScalar(uid InvestorUID) *ristretto255.Scalar {
	return common.HashToScalar("investoruid/uid", uid.uid[:])
}

func scopeScalar(scope Scope) *ristretto255.Scalar {
	return common.HashToScalar("investoruid/scope", scope.Bytes())
}

// ComputeCddID returns the commitment d*G_did + u*G_uid binding the
// identity of claim to its investor UID.
func ComputeCddID(claim CddClaimData) CddID {
	var id CddID
	copy(id[:], cddElement(claim.did, uidScalar(claim.uid)).Bytes())
	return id
}

// ComputeScopeID returns the commitment s*G_scope + u*H_scope binding the
// scope of claim to its investor UID.
func ComputeScopeID(claim ScopeClaimData) ScopeID {
	var id ScopeID
	copy(id[:], scopeElement(claim.scope, uidScalar(claim.uid)).Bytes())
	return id
}

func cddElement(did IdentityID, u *ristretto255.Scalar) *ristretto255.Element {
	e := ristretto255.NewIdentityElement().ScalarMult(didScalar(did), cddDIDBase)
	return e.Add(e, ristretto255.NewIdentityElement().ScalarMult(u, cddUIDBase))
}

func scopeElement(scope Scope, u *ristretto255.Scalar) *ristretto255.Element {
	e := ristretto255.NewIdentityElement().ScalarMult(scopeScalar(scope), scopeValBase)
	return e.Add(e, ristretto255.NewIdentityElement().ScalarMult(u, scopeUIDBase(scope)))
}

// cddUIDPart strips the public DID term from a CddId, leaving u*G_uid.
func cddUIDPart(did IdentityID, cdd *ristretto255.Element) *ristretto255.Element {
	d := ristretto255.NewIdentityElement().ScalarMult(didScalar(did), cddDIDBase)
	return ristretto255.NewIdentityElement().Subtract(cdd, d)
}

// scopeUIDPart strips the public scope term from a ScopeId, leaving u*H_scope.
func scopeUIDPart(scope Scope, sid *ristretto255.Element) *ristretto255.Element {
	s := ristretto255.NewIdentityElement().ScalarMult(scopeScalar(scope), scopeValBase)
	return ristretto255.NewIdentityElement().Subtract(sid, s)
}

// Names of bases and secrets in the proof relations.
const (
	baseCddUID     = "cdd_uid"
	baseScopeUID   = "scope_uid"
	baseCddPart    = "cdd_part"
	baseScopePart  = "scope_part"
	baseLegacy     = "legacy_base"
	baseLegacyKey  = "legacy_key"
	secretUID      = "uid"
	transcriptV1   = "investoruid/scope-claim/v1"
	transcriptV2   = "investoruid/scope-claim/v2"
	challengeLabel = "challenge"
)

var one = common.ScalarFromInt64(1)

// relation returns the structure Lhs = uid*base.
func relation(lhs, base string) zkproof.RepresentationProofStructure {
	return zkproof.RepresentationProofStructure{
		Lhs: []zkproof.LhsContribution{{Base: lhs, Power: one}},
		Rhs: []zkproof.RhsContribution{{Base: base, Secret: secretUID, Power: 1}},
	}
}

var (
	cddRelation    = relation(baseCddPart, baseCddUID)
	scopeRelation  = relation(baseScopePart, baseScopeUID)
	legacyRelation = relation(baseLegacyKey, baseLegacy)
)
