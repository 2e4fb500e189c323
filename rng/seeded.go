package rng

import (
	"github.com/privacybydesign/investoruid/internal/common"
)

// NewSeeded returns a deterministic Rng expanding seed with AES-CTR. Two
// generators with the same seed produce the same stream; a single generator
// never repeats output, also not across goroutines. Only use it where
// reproducibility is wanted, such as golden test vectors.
func NewSeeded(seed [32]byte) (Rng, error) {
	c, err := common.NewCPRNG(&seed)
	if err != nil {
		return nil, err
	}
	return &readerRng{r: c}, nil
}
