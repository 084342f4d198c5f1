package signature

import (
	"crypto/ed25519"
	"encoding/hex"
	"strings"
)

// ParsePublicKey decodes a hex encoded Ed25519 public key. Surrounding
// whitespace is ignored.
func ParsePublicKey(hexKey string) (ed25519.PublicKey, error) {
	raw, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, NewVerificationError("", ErrInvalidPublicKey, "not hex: %v", err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, NewVerificationError("", ErrInvalidPublicKey, "got %d bytes, want %d", len(raw), ed25519.PublicKeySize)
	}
	return ed25519.PublicKey(raw), nil
}
