package investoruid

import (
	"bytes"
	"encoding/hex"
	"strings"

	"github.com/go-errors/errors"
	"github.com/gtank/ristretto255"

	"github.com/privacybydesign/investoruid/internal/common"
)

const (
	// MaxTickerLength is the maximum length in bytes of a ticker scope.
	MaxTickerLength = 12
	// MaxCustomScopeLength is the maximum length in bytes of a custom scope.
	MaxCustomScopeLength = 32

	didPrefix = "did:poly:"
)

type (
	// IdentityID (DID) identifies a legal identity on the ledger.
	IdentityID [32]byte

	// CddID is the public commitment binding an identity to its investor UID.
	CddID [32]byte

	// ScopeID is the public commitment binding an asset scope to an investor UID.
	ScopeID [32]byte

	ScopeKind uint8

	// Scope identifies the asset scope within which investors are counted.
	Scope struct {
		Kind  ScopeKind
		Value []byte
	}
)

const (
	ScopeIdentity ScopeKind = iota
	ScopeTicker
	ScopeCustom
)

// ParseIdentityID parses a hex DID, optionally prefixed by "did:poly:" or "0x".
func ParseIdentityID(s string) (IdentityID, error) {
	var did IdentityID
	if err := parseHex32(strings.TrimPrefix(s, didPrefix), did[:]); err != nil {
		return did, errors.WrapPrefix(ErrInvalidIdentity, err.Error(), 0)
	}
	return did, nil
}

func (did IdentityID) String() string {
	return didPrefix + hex.EncodeToString(did[:])
}

func (did IdentityID) MarshalText() ([]byte, error) {
	return []byte(did.String()), nil
}

func (did *IdentityID) UnmarshalText(text []byte) error {
	var err error
	*did, err = ParseIdentityID(string(text))
	return err
}

// ParseCddID parses a hex encoded CddID. It does not check that the bytes
// encode a group element; verification does.
func ParseCddID(s string) (CddID, error) {
	var id CddID
	err := parseHex32(s, id[:])
	return id, err
}

func (id CddID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id CddID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *CddID) UnmarshalText(text []byte) error {
	return parseHex32(string(text), id[:])
}

// Validate checks that id is the canonical encoding of a group element.
func (id CddID) Validate() error {
	_, err := id.element()
	return err
}

func (id CddID) element() (*ristretto255.Element, error) {
	e, err := common.DecodeElement(id[:])
	if err != nil {
		return nil, invalidEncoding("cdd id")
	}
	return e, nil
}

// ParseScopeID parses a hex encoded ScopeID.
func ParseScopeID(s string) (ScopeID, error) {
	var id ScopeID
	err := parseHex32(s, id[:])
	return id, err
}

func (id ScopeID) String() string {
	return "0x" + hex.EncodeToString(id[:])
}

func (id ScopeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ScopeID) UnmarshalText(text []byte) error {
	return parseHex32(string(text), id[:])
}

func (id ScopeID) Validate() error {
	_, err := id.element()
	return err
}

func (id ScopeID) element() (*ristretto255.Element, error) {
	e, err := common.DecodeElement(id[:])
	if err != nil {
		return nil, invalidEncoding("scope id")
	}
	return e, nil
}

func parseHex32(s string, dst []byte) error {
	bts, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return errors.WrapPrefix(err, "invalid hex", 0)
	}
	if len(bts) != 32 {
		return errors.Errorf("expected 32 bytes, got %d", len(bts))
	}
	copy(dst, bts)
	return nil
}

// TickerScope returns the scope of the asset with the given ticker. The
// ticker is taken as is; canonicalization (e.g. upper casing) is up to the
// caller.
func TickerScope(ticker string) (Scope, error) {
	s := Scope{Kind: ScopeTicker, Value: []byte(ticker)}
	return s, s.Validate()
}

// IdentityScope returns a scope named by an identity.
func IdentityScope(did IdentityID) Scope {
	return Scope{Kind: ScopeIdentity, Value: append([]byte(nil), did[:]...)}
}

// CustomScope returns a scope named by arbitrary bytes.
func CustomScope(value []byte) (Scope, error) {
	s := Scope{Kind: ScopeCustom, Value: append([]byte(nil), value...)}
	return s, s.Validate()
}

func (s Scope) Validate() error {
	switch s.Kind {
	case ScopeIdentity:
		if len(s.Value) != 32 {
			return errors.WrapPrefix(ErrInvalidScope, "identity scope must have 32 bytes", 0)
		}
	case ScopeTicker:
		if len(s.Value) == 0 || len(s.Value) > MaxTickerLength {
			return errors.WrapPrefix(ErrInvalidScope, "ticker must have 1 to 12 bytes", 0)
		}
	case ScopeCustom:
		if len(s.Value) == 0 || len(s.Value) > MaxCustomScopeLength {
			return errors.WrapPrefix(ErrInvalidScope, "custom scope must have 1 to 32 bytes", 0)
		}
	default:
		return errors.WrapPrefix(ErrInvalidScope, "unknown scope kind", 0)
	}
	return nil
}

// Bytes returns the canonical encoding of the scope: kind byte followed by
// the value.
func (s Scope) Bytes() []byte {
	return append([]byte{byte(s.Kind)}, s.Value...)
}

func (s Scope) Equal(o Scope) bool {
	return s.Kind == o.Kind && bytes.Equal(s.Value, o.Value)
}

func (s Scope) String() string {
	switch s.Kind {
	case ScopeIdentity:
		var did IdentityID
		copy(did[:], s.Value)
		return "identity:" + did.String()
	case ScopeTicker:
		return "ticker:" + string(s.Value)
	default:
		return "custom:0x" + hex.EncodeToString(s.Value)
	}
}
