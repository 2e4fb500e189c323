// Package vectors generates the golden vectors shared with other
// implementations: commitments and proofs for two fixed identities in
// ticker scope "A", with deterministic mock investor UIDs.
package vectors

import (
	"encoding/hex"

	"github.com/go-errors/errors"
	"golang.org/x/crypto/blake2b"

	"github.com/privacybydesign/investoruid"
	"github.com/privacybydesign/investoruid/rng"
)

const (
	// Ticker is the scope of the vectors.
	Ticker = "A"

	mockUIDDomain = "investoruid/mock-uid"
)

// TestDIDs are the identities of the vectors: 0x06 and 0x07 followed by 31
// zero bytes.
var TestDIDs = []investoruid.IdentityID{{0x06}, {0x07}}

// Vector holds the hex encoded outputs for one identity.
type Vector struct {
	DID     string `json:"did"`
	UID     string `json:"uid"`
	Scope   string `json:"scope"`
	CddID   string `json:"cdd_id"`
	ScopeID string `json:"scope_id"`
	ProofV1 string `json:"proof_v1"`
	ProofV2 string `json:"proof_v2"`
}

// MockInvestorUID derives a stand-in UID from did as BLAKE2b-128 of a
// domain tag and the DID. Real UIDs are issued by CDD providers.
func MockInvestorUID(did investoruid.IdentityID) [16]byte {
	h, err := blake2b.New(16, nil)
	if err != nil {
		panic(err) // 16 is a valid size and no key is used
	}
	h.Write([]byte(mockUIDDomain))
	h.Write(did[:])
	var uid [16]byte
	copy(uid[:], h.Sum(nil))
	return uid
}

// Generate computes the vectors. Commitments are fixed; the proofs depend on
// rnd but always verify.
func Generate(rnd rng.Rng) ([]Vector, error) {
	scope, err := investoruid.TickerScope(Ticker)
	if err != nil {
		return nil, err
	}
	vectors := make([]Vector, 0, len(TestDIDs))
	for _, did := range TestDIDs {
		v, err := generate(did, scope, rnd)
		if err != nil {
			return nil, errors.WrapPrefix(err, did.String(), 0)
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func generate(did investoruid.IdentityID, scope investoruid.Scope, rnd rng.Rng) (Vector, error) {
	raw := MockInvestorUID(did)
	uid := investoruid.NewInvestorUID(raw)
	cdd := investoruid.NewCddClaimData(did, uid)
	sc := investoruid.NewScopeClaimData(scope, uid)
	claim := investoruid.NewInvestorUniquenessClaim(cdd, sc)

	v := Vector{
		DID:     did.String(),
		UID:     hex.EncodeToString(raw[:]),
		Scope:   scope.String(),
		CddID:   claim.CddID.String(),
		ScopeID: claim.ScopeID.String(),
	}
	for _, version := range []investoruid.ProofVersion{investoruid.ProofV1, investoruid.ProofV2} {
		proof, err := investoruid.CreateInvestorZKProof(version, cdd, sc, rnd)
		if err != nil {
			return Vector{}, err
		}
		if err = investoruid.VerifyClaim(claim, did, proof); err != nil {
			return Vector{}, errors.WrapPrefix(err, "generated proof does not verify", 0)
		}
		bts, err := proof.MarshalBinary()
		if err != nil {
			return Vector{}, err
		}
		if version == investoruid.ProofV1 {
			v.ProofV1 = hex.EncodeToString(bts)
		} else {
			v.ProofV2 = hex.EncodeToString(bts)
		}
	}
	return v, nil
}
