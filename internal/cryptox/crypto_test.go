package cryptox

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey_Deterministic(t *testing.T) {
	password := []byte("secret-password")
	salt := []byte("fixed-salt")

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if !bytes.Equal(key1, key2) {
		t.Errorf("expected same result for same inputs, got different")
	}

	expectedHex := "34f7a1c64df63ab1ad5b5ee06e64db5713b35f81839823304db63e8e5e6a6a39"
	if hex.EncodeToString(key1) != expectedHex {
		t.Errorf("expected %s, got %s", expectedHex, hex.EncodeToString(key1))
	}
}

func TestDeriveKey_DifferentInputs(t *testing.T) {
	password := []byte("secret-password")

	key1 := DeriveKey(password, []byte("salt-1"))
	key2 := DeriveKey(password, []byte("salt-2"))

	if bytes.Equal(key1, key2) {
		t.Errorf("expected different results for different salts, got same")
	}
}

func TestGenerateVideoKey(t *testing.T) {
	k1 := GenerateVideoKey()
	k2 := GenerateVideoKey()

	raw, err := base64.StdEncoding.DecodeString(k1)
	require.NoError(t, err)
	assert.Len(t, raw, VideoKeySize)
	assert.NotEqual(t, k1, k2)
}

func TestSealOpen_RoundTrip(t *testing.T) {
	plain := []byte(`{"v1":{"key":"abc"}}`)

	sealed, err := SealExport(plain, []byte("hunter2"))
	require.NoError(t, err)
	assert.True(t, IsSealed(sealed))
	assert.False(t, bytes.Contains(sealed, []byte("abc")))

	got, err := OpenExport(sealed, []byte("hunter2"))
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestSealExport_FreshSaltAndNonce(t *testing.T) {
	a, err := SealExport([]byte("x"), []byte("p"))
	require.NoError(t, err)
	b, err := SealExport([]byte("x"), []byte("p"))
	require.NoError(t, err)

	var ea, eb Sealed
	require.NoError(t, json.Unmarshal(a, &ea))
	require.NoError(t, json.Unmarshal(b, &eb))
	assert.NotEqual(t, ea.Salt, eb.Salt)
	assert.NotEqual(t, ea.Nonce, eb.Nonce)
}

func TestOpenExport_WrongPassphrase(t *testing.T) {
	sealed, err := SealExport([]byte("data"), []byte("right"))
	require.NoError(t, err)

	_, err = OpenExport(sealed, []byte("wrong"))
	require.ErrorIs(t, err, ErrBadPassphrase)
}

func TestOpenExport_Tampered(t *testing.T) {
	sealed, err := SealExport([]byte("data"), []byte("p"))
	require.NoError(t, err)

	var env Sealed
	require.NoError(t, json.Unmarshal(sealed, &env))
	env.Ciphertext[0] ^= 0xff
	tampered, err := json.Marshal(env)
	require.NoError(t, err)

	_, err = OpenExport(tampered, []byte("p"))
	require.ErrorIs(t, err, ErrBadPassphrase)
}

func TestOpenExport_InvalidEnvelope(t *testing.T) {
	tests := map[string]string{
		"not json":      "garbage",
		"wrong version": `{"version":9,"kdf":"argon2id","salt":"AQ==","nonce":"AQ==","ciphertext":"AQ=="}`,
		"wrong kdf":     `{"version":1,"kdf":"scrypt","salt":"AQ==","nonce":"AQ==","ciphertext":"AQ=="}`,
		"missing salt":  `{"version":1,"kdf":"argon2id","nonce":"AQ==","ciphertext":"AQ=="}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := OpenExport([]byte(in), []byte("p"))
			require.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}
	assert.False(t, IsSealed([]byte(`{"v1":{"key":"k"}}`)))
}
