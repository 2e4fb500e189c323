package signed

import (
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type attestation struct {
	Subject [32]byte
	Value   []byte
	Issued  time.Time
	Next    *attestation
}

func TestSigned(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)

	before := attestation{Subject: [32]byte{6}, Value: []byte("hello"), Issued: time.Unix(1600000000, 0), Next: &attestation{Value: []byte("world")}}
	var after attestation

	msg, err := MarshalSign(sk, before)
	require.NoError(t, err)
	require.NoError(t, UnmarshalVerify(&sk.PublicKey, msg, &after))
	assert.Equal(t, before.Subject, after.Subject)
	assert.Equal(t, before.Value, after.Value)
	assert.Equal(t, before.Issued.Unix(), after.Issued.Unix())
	require.NotNil(t, after.Next)
	assert.Equal(t, []byte("world"), after.Next.Value)
}

func TestSignedWrongKey(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)
	other, err := GenerateKey()
	require.NoError(t, err)

	msg, err := MarshalSign(sk, attestation{Value: []byte{1}})
	require.NoError(t, err)
	var dst attestation
	err = UnmarshalVerify(&other.PublicKey, msg, &dst)
	assert.True(t, errors.Is(err, ErrInvalidSignature))

	assert.Error(t, UnmarshalVerify(&sk.PublicKey, Message{0x01, 0x02}, &dst))
}

func TestPemKeys(t *testing.T) {
	sk, err := GenerateKey()
	require.NoError(t, err)

	pkPem, err := MarshalPemPublicKey(&sk.PublicKey)
	require.NoError(t, err)
	pk, err := UnmarshalPemPublicKey(pkPem)
	require.NoError(t, err)
	assert.True(t, pk.Equal(&sk.PublicKey))

	skPem, err := MarshalPemPrivateKey(sk)
	require.NoError(t, err)
	sk2, err := UnmarshalPemPrivateKey(skPem)
	require.NoError(t, err)
	assert.True(t, sk2.Equal(sk))

	_, err = UnmarshalPemPublicKey([]byte("garbage"))
	assert.Error(t, err)
	_, err = UnmarshalPemPrivateKey(pkPem)
	assert.Error(t, err)
}
