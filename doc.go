// Package investoruid lets a permissioned ledger enforce "one beneficial
// investor per asset scope" without the investor's unique identifier (UID)
// ever appearing on-chain.
//
// Two deterministic commitments hide the UID:
//
//	CddId   = d*G_did   + u*G_uid        binds an identity (DID) to the UID
//	ScopeId = s*G_scope + u*H_scope(S)   binds an asset scope S to the UID
//
// over ristretto255, where d, u and s are hashes of the DID, UID and scope to
// scalars and all generators are derived by hashing to the group. As H_scope
// differs per scope, ScopeIds of one investor for different scopes cannot be
// linked.
//
// The investor proves in zero knowledge that the CddId on record and a
// ScopeId hide the same UID. Two protocol versions exist, wrapped in the
// InvestorZKProofData tagged union:
//
//   - version 1: a Schnorr signature under the difference of both
//     commitments (legacy, weaker);
//   - version 2: a Chaum-Pedersen proof of equality of discrete logarithms,
//     carrying the ScopeId it speaks about.
//
// Proof generation takes its randomness from an injected rng.Rng; all
// verification functions are pure.
package investoruid
