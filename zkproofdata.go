package investoruid

import (
	"fmt"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/investoruid/internal/scale"
	"github.com/privacybydesign/investoruid/rng"
)

type ProofVersion uint8

const (
	ProofV1 ProofVersion = 1
	ProofV2 ProofVersion = 2
)

func (v ProofVersion) String() string {
	switch v {
	case ProofV1:
		return "v1"
	case ProofV2:
		return "v2"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(v))
	}
}

// InvestorZKProofData holds a uniqueness proof of either protocol version.
// The zero value holds no proof and never verifies.
type InvestorZKProofData struct {
	version ProofVersion
	v1      *LegacyProof
	v2      *ScopeClaimProof
}

func NewInvestorZKProofV1(p *LegacyProof) InvestorZKProofData {
	return InvestorZKProofData{version: ProofV1, v1: p}
}

func NewInvestorZKProofV2(p *ScopeClaimProof) InvestorZKProofData {
	return InvestorZKProofData{version: ProofV2, v2: p}
}

// CreateInvestorZKProof creates a proof of the requested version.
func CreateInvestorZKProof(version ProofVersion, cdd CddClaimData, scope ScopeClaimData, rnd rng.Rng) (InvestorZKProofData, error) {
	switch version {
	case ProofV1:
		p, err := CreateLegacyProof(cdd, scope, rnd)
		if err != nil {
			return InvestorZKProofData{}, err
		}
		return NewInvestorZKProofV1(p), nil
	case ProofV2:
		p, err := CreateScopeClaimProof(cdd, scope, rnd)
		if err != nil {
			return InvestorZKProofData{}, err
		}
		return NewInvestorZKProofV2(p), nil
	default:
		return InvestorZKProofData{}, unsupported(version)
	}
}

func (d InvestorZKProofData) Version() ProofVersion {
	return d.version
}

func (d InvestorZKProofData) V1() (*LegacyProof, bool) {
	return d.v1, d.version == ProofV1 && d.v1 != nil
}

func (d InvestorZKProofData) V2() (*ScopeClaimProof, bool) {
	return d.v2, d.version == ProofV2 && d.v2 != nil
}

// Verify checks the proof for the claim (did, scope, scopeID) against the
// CddId on record for did. A version 2 proof must speak about scopeID.
func (d InvestorZKProofData) Verify(did IdentityID, scope Scope, scopeID ScopeID, cddID CddID) error {
	switch d.version {
	case ProofV1:
		return VerifyLegacyProof(d.v1, did, scope, scopeID, cddID)
	case ProofV2:
		if d.v2 == nil {
			return verificationFailed("missing proof")
		}
		if d.v2.ScopeID != scopeID {
			return verificationFailed("proof is for another scope id")
		}
		return VerifyScopeClaimProof(d.v2, did, scope, cddID)
	default:
		return unsupported(d.version)
	}
}

// MarshalBinary encodes the version tag followed by the proof bytes.
func (d InvestorZKProofData) MarshalBinary() ([]byte, error) {
	var (
		enc   scale.Encoder
		inner []byte
		err   error
	)
	switch d.version {
	case ProofV1:
		if d.v1 == nil {
			return nil, errors.New("missing v1 proof")
		}
		inner, err = d.v1.MarshalBinary()
	case ProofV2:
		if d.v2 == nil {
			return nil, errors.New("missing v2 proof")
		}
		inner, err = d.v2.MarshalBinary()
	default:
		return nil, unsupported(d.version)
	}
	if err != nil {
		return nil, err
	}
	enc.PutUint8(uint8(d.version))
	enc.PutFixed(inner)
	return enc.Bytes(), nil
}

func (d *InvestorZKProofData) UnmarshalBinary(data []byte) error {
	dec := scale.NewDecoder(data)
	tag, err := dec.Uint8()
	if err != nil {
		return errors.WrapPrefix(ErrInvalidEncoding, "proof version", 0)
	}
	if err = d.decodeVariant(ProofVersion(tag), dec); err != nil {
		return err
	}
	if err = dec.Finish(); err != nil {
		return errors.WrapPrefix(ErrInvalidEncoding, err.Error(), 0)
	}
	return nil
}

func (d *InvestorZKProofData) decodeVariant(version ProofVersion, dec *scale.Decoder) error {
	switch version {
	case ProofV1:
		bts, err := dec.Fixed(LegacyProofSize)
		if err != nil {
			return errors.WrapPrefix(ErrInvalidEncoding, "v1 proof", 0)
		}
		p := &LegacyProof{}
		if err = p.UnmarshalBinary(bts); err != nil {
			return err
		}
		*d = NewInvestorZKProofV1(p)
	case ProofV2:
		bts, err := dec.Fixed(ScopeClaimProofSize)
		if err != nil {
			return errors.WrapPrefix(ErrInvalidEncoding, "v2 proof", 0)
		}
		p := &ScopeClaimProof{}
		if err = p.UnmarshalBinary(bts); err != nil {
			return err
		}
		*d = NewInvestorZKProofV2(p)
	default:
		return unsupported(version)
	}
	return nil
}

func unsupported(v ProofVersion) error {
	return errors.WrapPrefix(ErrUnsupportedProofVersion, fmt.Sprintf("version %d", uint8(v)), 1)
}
