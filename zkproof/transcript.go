package zkproof

import (
	"github.com/gtank/merlin"
	"github.com/gtank/ristretto255"
)

// Transcript is a Fiat–Shamir transcript: everything the verifier sees is
// absorbed before the challenge is squeezed out.
type Transcript struct {
	t *merlin.Transcript
}

func NewTranscript(protocol string) *Transcript {
	return &Transcript{t: merlin.NewTranscript(protocol)}
}

func (t *Transcript) AppendMessage(label string, msg []byte) {
	t.t.AppendMessage([]byte(label), msg)
}

func (t *Transcript) AppendElements(label string, elements ...*ristretto255.Element) {
	for _, e := range elements {
		t.t.AppendMessage([]byte(label), e.Bytes())
	}
}

// ChallengeScalar derives a uniformly distributed challenge scalar.
func (t *Transcript) ChallengeScalar(label string) *ristretto255.Scalar {
	c, err := ristretto255.NewScalar().SetUniformBytes(t.t.ExtractBytes([]byte(label), 64))
	if err != nil {
		panic(err) // 64 bytes are always accepted
	}
	return c
}
