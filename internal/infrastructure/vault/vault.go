package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	domainErrors "github.com/payhub-io/payhub/internal/domain/errors"
)

const gcmTagSize = 16

// Vault encrypts and decrypts processor credential blobs with AES-256-GCM.
// The envelope format is "hex(iv):hex(tag):hex(ciphertext)". A single static
// key per process lifetime; no rotation.
type Vault struct {
	key []byte
}

// New derives a 32-byte key from the configured secret via SHA-256, so the
// secret does not need to be exactly key-length.
func New(secret string) *Vault {
	hash := sha256.Sum256([]byte(secret))
	return &Vault{key: hash[:]}
}

// Encrypt seals plaintext with a fresh random IV and returns the envelope.
func (v *Vault) Encrypt(plaintext []byte) (string, error) {
	aesGCM, err := v.aead()
	if err != nil {
		return "", err
	}

	iv := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return "", fmt.Errorf("generate iv: %w", err)
	}

	sealed := aesGCM.Seal(nil, iv, plaintext, nil)
	// Seal appends the auth tag to the ciphertext; the envelope keeps them
	// as separate hex parts.
	ciphertext := sealed[:len(sealed)-gcmTagSize]
	tag := sealed[len(sealed)-gcmTagSize:]

	return strings.Join([]string{
		hex.EncodeToString(iv),
		hex.EncodeToString(tag),
		hex.EncodeToString(ciphertext),
	}, ":"), nil
}

// Decrypt opens an envelope. It returns ErrMalformedEnvelope when the input
// does not split into exactly three hex parts and ErrEnvelopeIntegrity when
// the auth tag does not verify.
func (v *Vault) Decrypt(envelope string) ([]byte, error) {
	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return nil, domainErrors.ErrMalformedEnvelope
	}

	iv, err := hex.DecodeString(parts[0])
	if err != nil {
		return nil, domainErrors.ErrMalformedEnvelope
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, domainErrors.ErrMalformedEnvelope
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, domainErrors.ErrMalformedEnvelope
	}

	aesGCM, err := v.aead()
	if err != nil {
		return nil, err
	}
	if len(iv) != aesGCM.NonceSize() || len(tag) != gcmTagSize {
		return nil, domainErrors.ErrMalformedEnvelope
	}

	plaintext, err := aesGCM.Open(nil, iv, append(ciphertext, tag...), nil)
	if err != nil {
		return nil, domainErrors.ErrEnvelopeIntegrity
	}
	return plaintext, nil
}

func (v *Vault) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	return aesGCM, nil
}
