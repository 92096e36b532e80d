package keys

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/nspcc-dev/neo2-vm/pkg/crypto/hash"
	"github.com/stretchr/testify/require"
)

// P-256 with SHA-256 vector from RFC 6979, A.2.5.
const (
	rfcPrivateKey = "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"
	rfcPublicKey  = "0360fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb6"
	rfcSignature  = "efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716" +
		"f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8"
)

func TestDecodeFromString(t *testing.T) {
	pubKey, err := NewPublicKeyFromString(rfcPublicKey)
	require.NoError(t, err)
	require.Equal(t, rfcPublicKey, pubKey.String())

	_, err = NewPublicKeyFromString("zz")
	require.Error(t, err)
}

func TestDecodeBytesErrors(t *testing.T) {
	errCases := map[string]string{
		"empty":         "",
		"short":         "02",
		"bad prefix":    "05" + rfcPublicKey[2:],
		"short x":       rfcPublicKey[:20],
		"trailing data": rfcPublicKey + "00",
	}
	for name, s := range errCases {
		t.Run(name, func(t *testing.T) {
			b, err := hex.DecodeString(s)
			require.NoError(t, err)
			_, err = NewPublicKeyFromBytes(b)
			require.Error(t, err)
		})
	}
}

func TestInfinity(t *testing.T) {
	key, err := NewPublicKeyFromBytes([]byte{0})
	require.NoError(t, err)
	require.True(t, key.IsInfinity())
	require.Equal(t, []byte{0x00}, key.Bytes())
	require.False(t, key.Verify(make([]byte, 64), make([]byte, 32)))
}

func TestUncompressedRoundTrip(t *testing.T) {
	priv, err := NewPrivateKey()
	require.NoError(t, err)

	uncompressed := append([]byte{0x04}, priv.X.FillBytes(make([]byte, 32))...)
	uncompressed = append(uncompressed, priv.Y.FillBytes(make([]byte, 32))...)
	pub, err := NewPublicKeyFromBytes(uncompressed)
	require.NoError(t, err)
	require.True(t, pub.Equal(priv.PublicKey()))

	fromCompressed, err := NewPublicKeyFromBytes(pub.Bytes())
	require.NoError(t, err)
	require.True(t, pub.Equal(fromCompressed))
}

func TestRFC6979Signature(t *testing.T) {
	priv, err := NewPrivateKeyFromHex(rfcPrivateKey)
	require.NoError(t, err)
	require.Equal(t, rfcPublicKey, priv.PublicKey().String())
	require.Equal(t, rfcPrivateKey, priv.String())

	sig := priv.Sign([]byte("sample"))
	require.Equal(t, rfcSignature, hex.EncodeToString(sig))

	digest := sha256.Sum256([]byte("sample"))
	require.True(t, priv.PublicKey().Verify(sig, digest[:]))

	sig[0] ^= 0xff
	require.False(t, priv.PublicKey().Verify(sig, digest[:]))
	require.False(t, priv.PublicKey().Verify(sig[:63], digest[:]))
}

func TestVerificationScript(t *testing.T) {
	pub, err := NewPublicKeyFromString(rfcPublicKey)
	require.NoError(t, err)

	script := pub.GetVerificationScript()
	require.Equal(t, "21"+rfcPublicKey+"ac", hex.EncodeToString(script))
	require.Equal(t, hash.Hash160(script), pub.GetScriptHash())
	require.Equal(t, byte('A'), pub.Address()[0])
}

func TestPublicKeyJSON(t *testing.T) {
	pub, err := NewPublicKeyFromString(rfcPublicKey)
	require.NoError(t, err)

	data, err := json.Marshal(pub)
	require.NoError(t, err)
	require.Equal(t, `"`+rfcPublicKey+`"`, string(data))

	actual := new(PublicKey)
	require.NoError(t, json.Unmarshal(data, actual))
	require.True(t, pub.Equal(actual))

	require.Error(t, json.Unmarshal([]byte(`"0102"`), actual))
	require.Error(t, json.Unmarshal([]byte(`12`), actual))
}

func TestNewPrivateKeyFromBytesLength(t *testing.T) {
	_, err := NewPrivateKeyFromBytes(make([]byte, 31))
	require.Error(t, err)
	_, err = NewSecp256k1PrivateKeyFromBytes(make([]byte, 33))
	require.Error(t, err)
}
