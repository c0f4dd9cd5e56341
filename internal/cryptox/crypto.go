// Package cryptox holds the client's key material helpers: per-video key
// generation and passphrase sealing of key exports.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/spillway/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	// VideoKeySize is the length of a per-video encryption key in bytes.
	VideoKeySize = 32

	sealVersion = 1
	sealKDF     = "argon2id"
	saltSize    = 16
)

var (
	ErrInvalidEnvelope = errors.New("invalid sealed export")
	ErrBadPassphrase   = errors.New("wrong passphrase or corrupted export")
)

// GenerateVideoKey returns base64 of VideoKeySize random bytes.
func GenerateVideoKey() string {
	raw := common.GenerateRandByteArray(VideoKeySize)
	defer common.WipeByteArray(raw)
	return base64.StdEncoding.EncodeToString(raw)
}

// DeriveKey stretches a passphrase into a 32-byte AES key with argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, 32)
}

// Sealed is the on-disk form of a passphrase-protected export.
type Sealed struct {
	Version    int    `json:"version"`
	KDF        string `json:"kdf"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

// SealExport encrypts plaintext with a key derived from passphrase and
// returns the JSON encoded envelope.
func SealExport(plaintext, passphrase []byte) ([]byte, error) {
	salt := common.GenerateRandByteArray(saltSize)
	key := DeriveKey(passphrase, salt)
	defer common.WipeByteArray(key)

	ciphertext, nonce, err := encrypt(plaintext, key)
	if err != nil {
		return nil, fmt.Errorf("seal export: %w", err)
	}

	return json.MarshalIndent(Sealed{
		Version:    sealVersion,
		KDF:        sealKDF,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
	}, "", "  ")
}

// OpenExport reverses SealExport.
func OpenExport(sealed, passphrase []byte) ([]byte, error) {
	var env Sealed
	if err := json.Unmarshal(sealed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}
	if env.Version != sealVersion || env.KDF != sealKDF || len(env.Salt) == 0 || len(env.Nonce) == 0 {
		return nil, ErrInvalidEnvelope
	}

	key := DeriveKey(passphrase, env.Salt)
	defer common.WipeByteArray(key)

	plaintext, err := decrypt(env.Ciphertext, env.Nonce, key)
	if err != nil {
		return nil, ErrBadPassphrase
	}
	return plaintext, nil
}

// IsSealed reports whether data looks like a SealExport envelope.
func IsSealed(data []byte) bool {
	var probe struct {
		KDF        string `json:"kdf"`
		Ciphertext []byte `json:"ciphertext"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.KDF == sealKDF && len(probe.Ciphertext) > 0
}

// encrypt seals plaintext with AES-GCM under a fresh random nonce.
func encrypt(plaintext, key []byte) (ciphertext, nonce []byte, err error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = common.GenerateRandByteArray(aesgcm.NonceSize())
	return aesgcm.Seal(nil, nonce, plaintext, nil), nonce, nil
}

func decrypt(ciphertext, nonce, key []byte) ([]byte, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(nonce) != aesgcm.NonceSize() {
		return nil, ErrInvalidEnvelope
	}
	return aesgcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
