package service

import (
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
)

// MasterSealer implements BlobSealer on top of a MasterSecret.
//
// Every Seal draws a new salt, derives a fresh key from the master secret and
// that salt, then draws a new nonce. A (key, nonce) pair is therefore never
// reused across blobs.
type MasterSealer struct {
	masterSecret *cryptoDomain.MasterSecret
	keyDeriver   KeyDeriver
	aeadManager  AEADManager
}

// NewMasterSealer creates a MasterSealer bound to masterSecret.
func NewMasterSealer(
	masterSecret *cryptoDomain.MasterSecret,
	keyDeriver KeyDeriver,
	aeadManager AEADManager,
) *MasterSealer {
	return &MasterSealer{
		masterSecret: masterSecret,
		keyDeriver:   keyDeriver,
		aeadManager:  aeadManager,
	}
}

// Seal returns the wire form of a new EncryptedBlob holding plaintext.
func (s *MasterSealer) Seal(plaintext []byte) ([]byte, error) {
	blob, err := s.SealBlob(plaintext)
	if err != nil {
		return nil, err
	}
	return blob.Bytes(), nil
}

// Open parses data as an EncryptedBlob and decrypts it.
func (s *MasterSealer) Open(data []byte) ([]byte, error) {
	blob, err := cryptoDomain.ParseEncryptedBlob(data)
	if err != nil {
		return nil, err
	}
	return s.OpenBlob(blob)
}

// SealBlob encrypts plaintext under a key derived from the master secret and a
// freshly drawn salt.
func (s *MasterSealer) SealBlob(plaintext []byte) (cryptoDomain.EncryptedBlob, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return cryptoDomain.EncryptedBlob{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := s.cipherFor(salt)
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, err
	}

	iv, tag, ciphertext, err := aead.Seal(plaintext)
	if err != nil {
		return cryptoDomain.EncryptedBlob{}, err
	}

	return cryptoDomain.EncryptedBlob{
		Salt:       salt,
		IV:         iv,
		Tag:        tag,
		Ciphertext: ciphertext,
	}, nil
}

// OpenBlob re-derives the blob key from its salt and decrypts it.
// A wrong master secret surfaces as ErrIntegrity.
func (s *MasterSealer) OpenBlob(blob cryptoDomain.EncryptedBlob) ([]byte, error) {
	aead, err := s.cipherFor(blob.Salt)
	if err != nil {
		return nil, err
	}
	return aead.Open(blob.IV, blob.Tag, blob.Ciphertext)
}

func (s *MasterSealer) cipherFor(salt []byte) (AEAD, error) {
	var aead AEAD
	err := s.masterSecret.Use(func(secret []byte) error {
		key, err := s.keyDeriver.DeriveKey(secret, salt)
		if err != nil {
			return err
		}
		defer cryptoDomain.Zero(key)

		aead, err = s.aeadManager.CreateCipher(key)
		return err
	})
	if err != nil {
		return nil, err
	}
	return aead, nil
}
