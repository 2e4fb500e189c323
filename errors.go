package investoruid

import (
	"github.com/go-errors/errors"

	"github.com/privacybydesign/investoruid/rng"
)

var (
	// ErrInvalidEncoding is returned when 32 supplied bytes do not decode to
	// a group element or scalar.
	ErrInvalidEncoding = errors.New("invalid point or scalar encoding")
	// ErrVerificationFailed is returned when all inputs decode but the
	// proof does not hold for them.
	ErrVerificationFailed = errors.New("proof verification failed")
	// ErrUnsupportedProofVersion is returned for unknown proof version tags.
	ErrUnsupportedProofVersion = errors.New("unsupported proof version")
	// ErrEntropyUnavailable is returned when proof generation cannot obtain
	// randomness. Use rng.ErrorCode to obtain the host's error code.
	ErrEntropyUnavailable = rng.ErrEntropyUnavailable

	ErrInvalidScope    = errors.New("invalid scope")
	ErrInvalidIdentity = errors.New("invalid identity id")
	// ErrEphemeral is returned by every attempt to serialize investor
	// claim data or a raw investor UID.
	ErrEphemeral = errors.New("investor claim data is ephemeral and cannot be serialized")
)

func invalidEncoding(what string) error {
	return errors.WrapPrefix(ErrInvalidEncoding, what, 1)
}

func verificationFailed(what string) error {
	return errors.WrapPrefix(ErrVerificationFailed, what, 1)
}
