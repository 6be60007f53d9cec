package domain

import (
	"fmt"
)

// EncryptedBlob is a self-contained value sealed under a key derived from the
// master secret.
//
// Layout on disk: salt(32) | iv(16) | tag(16) | ciphertext. The salt selects the
// derived key, so the blob can only be opened with the same master secret.
type EncryptedBlob struct {
	Salt       []byte
	IV         []byte
	Tag        []byte
	Ciphertext []byte
}

// blobHeaderSize is the fixed prefix preceding the ciphertext.
const blobHeaderSize = SaltSize + NonceSize + TagSize

// ParseEncryptedBlob splits the wire form into its parts.
//
// The returned blob references data; callers must not modify data afterwards.
// Returns ErrMalformedInput when data is shorter than the fixed header.
func ParseEncryptedBlob(data []byte) (EncryptedBlob, error) {
	if len(data) < blobHeaderSize {
		return EncryptedBlob{}, fmt.Errorf(
			"%w: blob has %d bytes, need at least %d",
			ErrMalformedInput,
			len(data),
			blobHeaderSize,
		)
	}

	return EncryptedBlob{
		Salt:       data[:SaltSize],
		IV:         data[SaltSize : SaltSize+NonceSize],
		Tag:        data[SaltSize+NonceSize : blobHeaderSize],
		Ciphertext: data[blobHeaderSize:],
	}, nil
}

// Bytes returns the wire form salt | iv | tag | ciphertext.
func (b EncryptedBlob) Bytes() []byte {
	out := make([]byte, 0, len(b.Salt)+len(b.IV)+len(b.Tag)+len(b.Ciphertext))
	out = append(out, b.Salt...)
	out = append(out, b.IV...)
	out = append(out, b.Tag...)
	out = append(out, b.Ciphertext...)
	return out
}

// SealedPayload is the output of sealing under a conversation key. It carries
// no salt because conversation keys are uniformly random and need no derivation.
//
// The JSON form encodes every field as standard base64.
type SealedPayload struct {
	IV   []byte `json:"iv"`
	Tag  []byte `json:"tag"`
	Data []byte `json:"data"`
}
