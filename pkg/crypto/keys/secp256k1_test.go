package keys

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifySecp256k1(t *testing.T) {
	priv, err := NewSecp256k1PrivateKey()
	require.NoError(t, err)

	msg := []byte("neo2 secp256k1")
	digest := sha256.Sum256(msg)
	sig := priv.Sign(msg)
	pub := priv.PublicKeyBytes()
	require.Len(t, pub, PublicKeySize)
	require.True(t, VerifySecp256k1(pub, sig, digest[:]))

	t.Run("other message", func(t *testing.T) {
		other := sha256.Sum256([]byte("other"))
		require.False(t, VerifySecp256k1(pub, sig, other[:]))
	})
	t.Run("bad signature length", func(t *testing.T) {
		require.False(t, VerifySecp256k1(pub, sig[:10], digest[:]))
	})
	t.Run("zero signature", func(t *testing.T) {
		require.False(t, VerifySecp256k1(pub, make([]byte, 64), digest[:]))
	})
	t.Run("bad key", func(t *testing.T) {
		require.False(t, VerifySecp256k1([]byte{2, 1}, sig, digest[:]))
	})
	t.Run("r1 key", func(t *testing.T) {
		r1, err := NewPrivateKey()
		require.NoError(t, err)
		require.False(t, VerifySecp256k1(pub, r1.Sign(msg), digest[:]))
	})
}

func TestSecp256k1Deterministic(t *testing.T) {
	key := make([]byte, 32)
	key[31] = 7
	priv, err := NewSecp256k1PrivateKeyFromBytes(key)
	require.NoError(t, err)
	require.Equal(t, priv.Sign([]byte("x")), priv.Sign([]byte("x")))
}
