package vectors

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/privacybydesign/investoruid"
	"github.com/privacybydesign/investoruid/rng"
)

func TestTestDIDs(t *testing.T) {
	require.Len(t, TestDIDs, 2)
	assert.Equal(t, "did:poly:06"+strings.Repeat("00", 31), TestDIDs[0].String())
	assert.Equal(t, "did:poly:07"+strings.Repeat("00", 31), TestDIDs[1].String())
}

func TestMockInvestorUID(t *testing.T) {
	a := MockInvestorUID(TestDIDs[0])
	assert.Equal(t, a, MockInvestorUID(TestDIDs[0]))
	assert.NotEqual(t, a, MockInvestorUID(TestDIDs[1]))
	assert.NotEqual(t, [16]byte{}, a)
}

// Commitments for ticker "A" and the mock UIDs. Any change here breaks
// compatibility with claims already on the ledger.
var golden = []struct {
	did, uid, cddID, scopeID string
}{
	{
		did:     "did:poly:06" + strings.Repeat("00", 31),
		uid:     "75c8a9b47eba4c053cf2337d89bc349c",
		cddID:   "0x9e3946e818a190207404141ec274b0835bf562879172485dad000abd90b68c0b",
		scopeID: "0x4886f0923bed79cef8da187abee76c9e18d49cc7725cc474f2d4ef7312bf7d6f",
	},
	{
		did:     "did:poly:07" + strings.Repeat("00", 31),
		uid:     "73b11b6ed7087ca05347fd2f4e6ae98b",
		cddID:   "0x663f638f4fa6a8d94d9990512c760c4b810d1207cc1e60e290b30755dcc0e613",
		scopeID: "0x62863fec2b55a3343db2237044d9bbe07937e9022b01cc9b9b126e3397332e53",
	},
}

func TestGoldenVectors(t *testing.T) {
	vectors, err := Generate(rng.OS())
	require.NoError(t, err)
	require.Len(t, vectors, len(golden))

	for i, g := range golden {
		v := vectors[i]
		assert.Equal(t, g.did, v.DID)
		assert.Equal(t, g.uid, v.UID)
		assert.Equal(t, g.cddID, v.CddID)
		assert.Equal(t, g.scopeID, v.ScopeID)
		assert.Equal(t, "ticker:A", v.Scope)
	}
}

func TestGoldenCommitments(t *testing.T) {
	scope, err := investoruid.TickerScope(Ticker)
	require.NoError(t, err)
	for i, did := range TestDIDs {
		uid := investoruid.NewInvestorUID(MockInvestorUID(did))
		cddID := investoruid.ComputeCddID(investoruid.NewCddClaimData(did, uid))
		scopeID := investoruid.ComputeScopeID(investoruid.NewScopeClaimData(scope, uid))
		assert.Equal(t, golden[i].cddID, cddID.String())
		assert.Equal(t, golden[i].scopeID, scopeID.String())
	}
}

func TestGenerateStable(t *testing.T) {
	v1, err := Generate(rng.OS())
	require.NoError(t, err)
	v2, err := Generate(rng.OS())
	require.NoError(t, err)
	require.Len(t, v1, 2)

	for i := range v1 {
		assert.Equal(t, v1[i].CddID, v2[i].CddID)
		assert.Equal(t, v1[i].ScopeID, v2[i].ScopeID)
		assert.Equal(t, v1[i].UID, v2[i].UID)
		assert.NotEqual(t, v1[i].ProofV2, v2[i].ProofV2)
	}
	assert.NotEqual(t, v1[0].ScopeID, v1[1].ScopeID)
	assert.Equal(t, "ticker:A", v1[0].Scope)
}

func TestGenerateSeeded(t *testing.T) {
	r1, err := rng.NewSeeded([32]byte{9})
	require.NoError(t, err)
	r2, err := rng.NewSeeded([32]byte{9})
	require.NoError(t, err)

	v1, err := Generate(r1)
	require.NoError(t, err)
	v2, err := Generate(r2)
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestVectorsVerify(t *testing.T) {
	vectors, err := Generate(rng.OS())
	require.NoError(t, err)
	scope, err := investoruid.TickerScope(Ticker)
	require.NoError(t, err)

	for _, v := range vectors {
		did, err := investoruid.ParseIdentityID(v.DID)
		require.NoError(t, err)
		cddID, err := investoruid.ParseCddID(v.CddID)
		require.NoError(t, err)
		scopeID, err := investoruid.ParseScopeID(v.ScopeID)
		require.NoError(t, err)
		claim := investoruid.InvestorUniquenessClaim{Scope: scope, ScopeID: scopeID, CddID: cddID}

		for _, p := range []string{v.ProofV1, v.ProofV2} {
			bts, err := hex.DecodeString(p)
			require.NoError(t, err)
			var proof investoruid.InvestorZKProofData
			require.NoError(t, proof.UnmarshalBinary(bts))
			assert.True(t, investoruid.EvaluateClaim(claim, did, proof))
		}
		assert.Len(t, v.ProofV1, 2*(1+investoruid.LegacyProofSize))
		assert.Len(t, v.ProofV2, 2*(1+investoruid.ScopeClaimProofSize))
	}
}
