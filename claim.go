package investoruid

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/privacybydesign/investoruid/internal/scale"
)

type ClaimType uint8

// Claim type tags, in ledger order.
const (
	ClaimAccredited ClaimType = iota
	ClaimAffiliate
	ClaimBuyLockup
	ClaimSellLockup
	ClaimCustomerDueDiligence
	ClaimKnowYourCustomer
	ClaimJurisdiction
	ClaimExempted
	ClaimBlocked
	ClaimInvestorUniqueness
	ClaimNoData
)

var claimTypeNames = map[ClaimType]string{
	ClaimAccredited:           "Accredited",
	ClaimAffiliate:            "Affiliate",
	ClaimBuyLockup:            "BuyLockup",
	ClaimSellLockup:           "SellLockup",
	ClaimCustomerDueDiligence: "CustomerDueDiligence",
	ClaimKnowYourCustomer:     "KnowYourCustomer",
	ClaimJurisdiction:         "Jurisdiction",
	ClaimExempted:             "Exempted",
	ClaimBlocked:              "Blocked",
	ClaimInvestorUniqueness:   "InvestorUniqueness",
	ClaimNoData:               "NoData",
}

func (t ClaimType) String() string {
	if n, ok := claimTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("ClaimType(%d)", uint8(t))
}

var ErrUnknownClaimType = errors.New("unknown claim type")

// Claim is an attestation about an identity. Only InvestorUniquenessClaim
// can be backed by a uniqueness proof.
type Claim interface {
	Type() ClaimType
}

type (
	InvestorUniquenessClaim struct {
		Scope   Scope
		ScopeID ScopeID
		CddID   CddID
	}

	CustomerDueDiligenceClaim struct {
		CddID CddID
	}

	// ScopedClaim is any of the claims that only carry a scope: Accredited,
	// Affiliate, BuyLockup, SellLockup, KnowYourCustomer, Exempted, Blocked.
	ScopedClaim struct {
		Kind  ClaimType
		Scope Scope
	}

	JurisdictionClaim struct {
		CountryCode string
		Scope       Scope
	}

	NoDataClaim struct{}
)

func (InvestorUniquenessClaim) Type() ClaimType   { return ClaimInvestorUniqueness }
func (CustomerDueDiligenceClaim) Type() ClaimType { return ClaimCustomerDueDiligence }
func (c ScopedClaim) Type() ClaimType             { return c.Kind }
func (JurisdictionClaim) Type() ClaimType         { return ClaimJurisdiction }
func (NoDataClaim) Type() ClaimType               { return ClaimNoData }

// NewInvestorUniquenessClaim computes the public claim from the claim data.
func NewInvestorUniquenessClaim(cdd CddClaimData, scope ScopeClaimData) InvestorUniquenessClaim {
	return InvestorUniquenessClaim{
		Scope:   scope.scope,
		ScopeID: ComputeScopeID(scope),
		CddID:   ComputeCddID(cdd),
	}
}

// VerifyClaim checks that proof backs claim for the identity did. Claims
// other than InvestorUniquenessClaim are rejected.
func VerifyClaim(claim Claim, did IdentityID, proof InvestorZKProofData) error {
	var iu InvestorUniquenessClaim
	switch c := claim.(type) {
	case InvestorUniquenessClaim:
		iu = c
	case *InvestorUniquenessClaim:
		if c == nil {
			return verificationFailed("nil claim")
		}
		iu = *c
	case nil:
		return verificationFailed("nil claim")
	default:
		return verificationFailed(fmt.Sprintf("%T claim cannot be proven", claim))
	}

	err := proof.Verify(did, iu.Scope, iu.ScopeID, iu.CddID)
	if err != nil {
		Logger.WithFields(logrus.Fields{
			"did":     did,
			"scope":   iu.Scope,
			"version": proof.Version(),
		}).Debug("investor uniqueness claim rejected: ", err)
	}
	return err
}

// EvaluateClaim reports whether proof backs claim for the identity did.
func EvaluateClaim(claim Claim, did IdentityID, proof InvestorZKProofData) bool {
	return VerifyClaim(claim, did, proof) == nil
}

// MarshalClaim encodes a claim in the ledger's wire format: type tag
// followed by the claim's fields. Pointers to claims are accepted.
func MarshalClaim(claim Claim) ([]byte, error) {
	claim, err := derefClaim(claim)
	if err != nil {
		return nil, err
	}
	var enc scale.Encoder
	enc.PutUint8(uint8(claim.Type()))
	switch c := claim.(type) {
	case InvestorUniquenessClaim:
		if err = putScope(&enc, c.Scope); err != nil {
			return nil, err
		}
		enc.PutFixed(c.ScopeID[:])
		enc.PutFixed(c.CddID[:])
	case CustomerDueDiligenceClaim:
		enc.PutFixed(c.CddID[:])
	case ScopedClaim:
		if !isScoped(c.Kind) {
			return nil, errors.WrapPrefix(ErrUnknownClaimType, c.Kind.String()+" is not a scoped claim", 0)
		}
		err = putScope(&enc, c.Scope)
	case JurisdictionClaim:
		if len(c.CountryCode) != 2 {
			return nil, errors.Errorf("invalid country code %q", c.CountryCode)
		}
		enc.PutFixed([]byte(c.CountryCode))
		err = putScope(&enc, c.Scope)
	case NoDataClaim:
	}
	if err != nil {
		return nil, err
	}
	return enc.Bytes(), nil
}

// derefClaim returns the claim value behind claim, rejecting nil claims and
// types this package does not define.
func derefClaim(claim Claim) (Claim, error) {
	switch c := claim.(type) {
	case InvestorUniquenessClaim, CustomerDueDiligenceClaim, ScopedClaim, JurisdictionClaim, NoDataClaim:
		return c, nil
	case *InvestorUniquenessClaim:
		if c != nil {
			return *c, nil
		}
	case *CustomerDueDiligenceClaim:
		if c != nil {
			return *c, nil
		}
	case *ScopedClaim:
		if c != nil {
			return *c, nil
		}
	case *JurisdictionClaim:
		if c != nil {
			return *c, nil
		}
	case *NoDataClaim:
		if c != nil {
			return *c, nil
		}
	default:
		return nil, errors.WrapPrefix(ErrUnknownClaimType, fmt.Sprintf("%T", claim), 0)
	}
	return nil, errors.WrapPrefix(ErrUnknownClaimType, fmt.Sprintf("nil %T", claim), 0)
}

// UnmarshalClaim decodes a claim encoded by MarshalClaim.
func UnmarshalClaim(data []byte) (Claim, error) {
	dec := scale.NewDecoder(data)
	tag, err := dec.Uint8()
	if err != nil {
		return nil, errors.WrapPrefix(err, "claim type", 0)
	}
	claim, err := decodeClaim(ClaimType(tag), dec)
	if err != nil {
		return nil, err
	}
	if err = dec.Finish(); err != nil {
		return nil, err
	}
	return claim, nil
}

func decodeClaim(t ClaimType, dec *scale.Decoder) (Claim, error) {
	switch {
	case t == ClaimInvestorUniqueness:
		var c InvestorUniquenessClaim
		var err error
		if c.Scope, err = getScope(dec); err != nil {
			return nil, err
		}
		if err = getFixed(dec, c.ScopeID[:]); err != nil {
			return nil, err
		}
		if err = getFixed(dec, c.CddID[:]); err != nil {
			return nil, err
		}
		return c, nil
	case t == ClaimCustomerDueDiligence:
		var c CustomerDueDiligenceClaim
		if err := getFixed(dec, c.CddID[:]); err != nil {
			return nil, err
		}
		return c, nil
	case t == ClaimJurisdiction:
		code, err := dec.Fixed(2)
		if err != nil {
			return nil, err
		}
		scope, err := getScope(dec)
		if err != nil {
			return nil, err
		}
		return JurisdictionClaim{CountryCode: string(code), Scope: scope}, nil
	case t == ClaimNoData:
		return NoDataClaim{}, nil
	case isScoped(t):
		scope, err := getScope(dec)
		if err != nil {
			return nil, err
		}
		return ScopedClaim{Kind: t, Scope: scope}, nil
	default:
		return nil, errors.WrapPrefix(ErrUnknownClaimType, t.String(), 0)
	}
}

func isScoped(t ClaimType) bool {
	switch t {
	case ClaimAccredited, ClaimAffiliate, ClaimBuyLockup, ClaimSellLockup,
		ClaimKnowYourCustomer, ClaimExempted, ClaimBlocked:
		return true
	}
	return false
}

func putScope(enc *scale.Encoder, s Scope) error {
	if err := s.Validate(); err != nil {
		return err
	}
	enc.PutUint8(uint8(s.Kind))
	enc.PutBytes(s.Value)
	return nil
}

func getScope(dec *scale.Decoder) (Scope, error) {
	kind, err := dec.Uint8()
	if err != nil {
		return Scope{}, err
	}
	value, err := dec.Bytes()
	if err != nil {
		return Scope{}, err
	}
	s := Scope{Kind: ScopeKind(kind), Value: append([]byte(nil), value...)}
	return s, s.Validate()
}

func getFixed(dec *scale.Decoder, dst []byte) error {
	bts, err := dec.Fixed(uint64(len(dst)))
	if err != nil {
		return err
	}
	copy(dst, bts)
	return nil
}
