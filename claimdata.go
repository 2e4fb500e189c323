package investoruid

import (
	"encoding/hex"
	"strings"

	"github.com/go-errors/errors"
)

// InvestorUID is the secret unique identifier of an investor, known only to
// the investor and their CDD provider. It refuses all serialization and does
// not print its value.
type InvestorUID struct {
	uid [16]byte
}

// NewInvestorUID wraps 16 secret bytes.
func NewInvestorUID(uid [16]byte) InvestorUID {
	return InvestorUID{uid: uid}
}

// ParseInvestorUID parses 16 hex encoded bytes, as handed out by a CDD provider.
func ParseInvestorUID(s string) (InvestorUID, error) {
	bts, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return InvestorUID{}, errors.WrapPrefix(err, "invalid investor uid", 0)
	}
	if len(bts) != 16 {
		return InvestorUID{}, errors.Errorf("investor uid must have 16 bytes, got %d", len(bts))
	}
	var uid InvestorUID
	copy(uid.uid[:], bts)
	return uid, nil
}

func (InvestorUID) String() string                   { return "InvestorUID(redacted)" }
func (InvestorUID) GoString() string                 { return "InvestorUID(redacted)" }
func (InvestorUID) MarshalJSON() ([]byte, error)     { return nil, ErrEphemeral }
func (InvestorUID) MarshalText() ([]byte, error)     { return nil, ErrEphemeral }
func (InvestorUID) MarshalBinary() ([]byte, error)   { return nil, ErrEphemeral }
func (InvestorUID) MarshalCBOR() ([]byte, error)     { return nil, ErrEphemeral }
func (uid InvestorUID) Equal(other InvestorUID) bool { return uid.uid == other.uid }

// CddClaimData is the transient input pairing an identity with its investor
// UID. It exists only for the duration of a commitment or proof computation.
type CddClaimData struct {
	did IdentityID
	uid InvestorUID
}

func NewCddClaimData(did IdentityID, uid InvestorUID) CddClaimData {
	return CddClaimData{did: did, uid: uid}
}

func (c CddClaimData) DID() IdentityID {
	return c.did
}

func (c CddClaimData) String() string {
	return "CddClaimData{" + c.did.String() + ", redacted}"
}

func (CddClaimData) MarshalJSON() ([]byte, error)   { return nil, ErrEphemeral }
func (CddClaimData) MarshalText() ([]byte, error)   { return nil, ErrEphemeral }
func (CddClaimData) MarshalBinary() ([]byte, error) { return nil, ErrEphemeral }
func (CddClaimData) MarshalCBOR() ([]byte, error)   { return nil, ErrEphemeral }

// ScopeClaimData is the transient input pairing an asset scope with an
// investor UID.
type ScopeClaimData struct {
	scope Scope
	uid   InvestorUID
}

func NewScopeClaimData(scope Scope, uid InvestorUID) ScopeClaimData {
	return ScopeClaimData{scope: scope, uid: uid}
}

func (c ScopeClaimData) Scope() Scope {
	return c.scope
}

func (c ScopeClaimData) String() string {
	return "ScopeClaimData{" + c.scope.String() + ", redacted}"
}

func (ScopeClaimData) MarshalJSON() ([]byte, error)   { return nil, ErrEphemeral }
func (ScopeClaimData) MarshalText() ([]byte, error)   { return nil, ErrEphemeral }
func (ScopeClaimData) MarshalBinary() ([]byte, error) { return nil, ErrEphemeral }
func (ScopeClaimData) MarshalCBOR() ([]byte, error)   { return nil, ErrEphemeral }
