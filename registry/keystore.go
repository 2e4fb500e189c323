package registry

import (
	"crypto/ecdsa"
	"os"

	"github.com/go-errors/errors"

	"github.com/privacybydesign/investoruid/signed"
)

// Keystore provides the public keys of the trusted CDD providers.
type Keystore interface {
	// PublicKey either returns the non-nil public key of the provider or an
	// error wrapping ErrUnknownProvider.
	PublicKey(provider string) (*ecdsa.PublicKey, error)
}

// MapKeystore is a static Keystore.
type MapKeystore map[string]*ecdsa.PublicKey

func (m MapKeystore) PublicKey(provider string) (*ecdsa.PublicKey, error) {
	pk, ok := m[provider]
	if !ok || pk == nil {
		return nil, errors.WrapPrefix(ErrUnknownProvider, provider, 0)
	}
	return pk, nil
}

// LoadKeystore reads one PEM public key file per provider.
func LoadKeystore(paths map[string]string) (MapKeystore, error) {
	ks := make(MapKeystore, len(paths))
	for provider, path := range paths {
		bts, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.WrapPrefix(err, "provider "+provider, 0)
		}
		if ks[provider], err = signed.UnmarshalPemPublicKey(bts); err != nil {
			return nil, errors.WrapPrefix(err, "provider "+provider, 0)
		}
	}
	return ks, nil
}
