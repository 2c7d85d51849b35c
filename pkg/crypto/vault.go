package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// ErrDecryptFailed is the only error Decrypt returns. Parse failures,
// version mismatches, and authentication failures are deliberately
// indistinguishable to the caller.
var ErrDecryptFailed = errors.New("decryption failed")

const (
	envelopeVersion = 1

	saltSize = 16
	ivSize   = 12
	tagSize  = 16
	keySize  = 32

	pbkdf2Iterations = 310000

	// masterSalt stretches passphrase-style secrets into the master key.
	// Changing it invalidates every stored blob.
	masterSalt = "chat-embed.vault.v1"
)

var hexKeyPattern = regexp.MustCompile(`^[0-9a-fA-F]{64}$`)

// swappable for deterministic tests
var vaultRandReader io.Reader = rand.Reader

// Vault encrypts vendor API keys at rest. Each record gets its own salt
// and IV; the envelope is versioned so the format can evolve without
// re-encrypting existing rows.
//
// Blob layout, base64-encoded:
//
//	[version:1][salt:16][iv:12][authTag:16][ciphertext:N]
type Vault struct {
	masterKey []byte
}

// NewVault builds a vault from the configured master secret. A 64-char
// hex secret is decoded and used as the master key directly; anything
// else is treated as a passphrase and stretched with PBKDF2.
func NewVault(secret string) (*Vault, error) {
	if secret == "" {
		return nil, errors.New("encryption key is required")
	}

	if hexKeyPattern.MatchString(secret) {
		key, err := hex.DecodeString(secret)
		if err != nil {
			return nil, err
		}
		return &Vault{masterKey: key}, nil
	}

	key := pbkdf2.Key([]byte(secret), []byte(masterSalt), pbkdf2Iterations, keySize, sha256.New)
	return &Vault{masterKey: key}, nil
}

// Encrypt seals a plaintext key into a fresh envelope. Two calls with
// the same plaintext produce different blobs.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(vaultRandReader, salt); err != nil {
		return "", err
	}
	iv := make([]byte, ivSize)
	if _, err := io.ReadFull(vaultRandReader, iv); err != nil {
		return "", err
	}

	gcm, err := v.recordCipher(salt)
	if err != nil {
		return "", err
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, 1+saltSize+ivSize+tagSize+len(ciphertext))
	blob = append(blob, envelopeVersion)
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decrypt opens an envelope. Legacy CBC blobs from the pre-envelope
// format are still readable; every failure mode returns ErrDecryptFailed.
func (v *Vault) Decrypt(blob string) (string, error) {
	if isLegacyBlob(blob) {
		return v.decryptLegacy(blob)
	}

	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", ErrDecryptFailed
	}
	if len(raw) < 1+saltSize+ivSize+tagSize {
		return "", ErrDecryptFailed
	}
	if raw[0] != envelopeVersion {
		return "", ErrDecryptFailed
	}

	offset := 1
	salt := raw[offset : offset+saltSize]
	offset += saltSize
	iv := raw[offset : offset+ivSize]
	offset += ivSize
	tag := raw[offset : offset+tagSize]
	offset += tagSize
	ciphertext := raw[offset:]

	gcm, err := v.recordCipher(salt)
	if err != nil {
		return "", ErrDecryptFailed
	}

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plaintext), nil
}

func (v *Vault) recordCipher(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(v.masterKey, salt, pbkdf2Iterations, keySize, sha256.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// isLegacyBlob recognizes the old "ivHex:ciphertextHex" CBC format
func isLegacyBlob(blob string) bool {
	parts := strings.Split(blob, ":")
	if len(parts) != 2 {
		return false
	}
	if len(parts[0]) != 2*aes.BlockSize {
		return false
	}
	for _, part := range parts {
		if _, err := hex.DecodeString(part); err != nil {
			return false
		}
	}
	return true
}

// decryptLegacy opens a pre-envelope AES-256-CBC blob keyed directly by
// the master key.
func (v *Vault) decryptLegacy(blob string) (string, error) {
	parts := strings.Split(blob, ":")
	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", ErrDecryptFailed
	}
	ciphertext, err := hex.DecodeString(parts[1])
	if err != nil {
		return "", ErrDecryptFailed
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrDecryptFailed
	}

	block, err := aes.NewCipher(v.masterKey)
	if err != nil {
		return "", ErrDecryptFailed
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := stripPKCS7(plaintext)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(unpadded), nil
}

func stripPKCS7(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errors.New("empty plaintext")
	}
	pad := int(data[len(data)-1])
	if pad == 0 || pad > aes.BlockSize || pad > len(data) {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-pad], nil
}
