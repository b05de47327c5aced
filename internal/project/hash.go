package project

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Digest - фиксированный 256 битный хеш артефакта (BLAKE2b-256).
type Digest [32]byte

// Sum hashes content.
func Sum(content []byte) Digest {
	return Digest(blake2b.Sum256(content))
}

// Combine строит общий хеш: H( first || rest[0] || rest[1] ... ).
// Порядок должен быть детерминированным (порядок объявлений в nate.toml).
func Combine(first Digest, rest ...Digest) Digest {
	h, err := blake2b.New256(nil)
	if err != nil {
		// unkeyed New256 never fails
		panic(err)
	}
	_, _ = h.Write(first[:])
	for _, d := range rest {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string {
	return d.Hex()
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

// ParseDigest decodes a 64-character hex digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(len(d)) {
		return d, fmt.Errorf("digest %q: want %d hex characters, got %d", s, hex.EncodedLen(len(d)), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("digest %q: %w", s, err)
	}
	return d, nil
}
