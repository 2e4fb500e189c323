// Package signed lets CDD providers sign the attestations they hand to the
// claim registry, and lets the registry verify them. Keys are ECDSA P-256
// in PEM; a signed message is a CBOR pair of the CBOR-encoded payload and
// an ASN.1 signature over its SHA-256 hash.
package signed

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/pem"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/investoruid/cbor"
)

var ErrInvalidSignature = errors.New("ecdsa signature was invalid")

type (
	// Message is a signed message, created by MarshalSign and verified and
	// parsed by UnmarshalVerify.
	Message []byte

	tuple struct {
		Msg, Sig []byte
	}
)

func GenerateKey() (*ecdsa.PrivateKey, error) {
	return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
}

func UnmarshalPemPublicKey(bts []byte) (*ecdsa.PublicKey, error) {
	block, _ := pem.Decode(bts)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, errors.New("no PEM public key found")
	}
	genericPk, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, errors.WrapPrefix(err, "invalid public key", 0)
	}
	pk, ok := genericPk.(*ecdsa.PublicKey)
	if !ok || pk.Curve != elliptic.P256() {
		return nil, errors.New("not a P-256 ecdsa public key")
	}
	return pk, nil
}

func MarshalPemPublicKey(pk *ecdsa.PublicKey) ([]byte, error) {
	bts, err := x509.MarshalPKIXPublicKey(pk)
	if err != nil {
		return nil, errors.WrapPrefix(err, "Failed to serialize public key", 0)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: bts}), nil
}

func UnmarshalPemPrivateKey(bts []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(bts)
	if block == nil || block.Type != "EC PRIVATE KEY" {
		return nil, errors.New("no PEM private key found")
	}
	sk, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.WrapPrefix(err, "invalid private key", 0)
	}
	return sk, nil
}

func MarshalPemPrivateKey(sk *ecdsa.PrivateKey) ([]byte, error) {
	bts, err := x509.MarshalECPrivateKey(sk)
	if err != nil {
		return nil, errors.WrapPrefix(err, "Failed to serialize private key", 0)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: bts}), nil
}

func Sign(sk *ecdsa.PrivateKey, bts []byte) ([]byte, error) {
	hash := sha256.Sum256(bts)
	return ecdsa.SignASN1(rand.Reader, sk, hash[:])
}

func Verify(pk *ecdsa.PublicKey, bts []byte, signature []byte) error {
	hash := sha256.Sum256(bts)
	if !ecdsa.VerifyASN1(pk, hash[:], signature) {
		return errors.New(ErrInvalidSignature)
	}
	return nil
}

// MarshalSign encodes message as CBOR and signs the result.
func MarshalSign(sk *ecdsa.PrivateKey, message interface{}) (Message, error) {
	bts, err := cbor.Marshal(message)
	if err != nil {
		return nil, err
	}
	signature, err := Sign(sk, bts)
	if err != nil {
		return nil, errors.WrapPrefix(err, "signing failed", 0)
	}
	return cbor.Marshal(&tuple{bts, signature})
}

// UnmarshalVerify checks the signature on a Message created by MarshalSign
// and decodes its payload into dst.
func UnmarshalVerify(pk *ecdsa.PublicKey, signed Message, dst interface{}) error {
	var tmp tuple
	if err := cbor.Unmarshal(signed, &tmp); err != nil {
		return err
	}
	if err := Verify(pk, tmp.Msg, tmp.Sig); err != nil {
		return err
	}
	return cbor.Unmarshal(tmp.Msg, dst)
}
