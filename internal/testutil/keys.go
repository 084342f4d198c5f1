package testutil

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// keySeed derives the fixture key pair. These keys sign test requests only.
const keySeed = "interactions-relay-test-suite-ed25519-seed-v1"

var (
	// PrivateKey signs test requests.
	PrivateKey ed25519.PrivateKey

	// PublicKey verifies signatures made with PrivateKey.
	PublicKey ed25519.PublicKey

	// PublicKeyHex is PublicKey in the form DISCORD_PUBLIC_KEY expects.
	PublicKeyHex string
)

func init() {
	seed := sha256.Sum256([]byte(keySeed))
	PrivateKey = ed25519.NewKeyFromSeed(seed[:])
	PublicKey = PrivateKey.Public().(ed25519.PublicKey)
	PublicKeyHex = hex.EncodeToString(PublicKey)
}

// SignRequest signs body at the current time and returns the values for the
// X-Signature-Ed25519 and X-Signature-Timestamp headers.
func SignRequest(body []byte) (signature string, timestamp string) {
	return SignRequestAt(body, time.Now())
}

// SignRequestAt signs body with the timestamp of at.
func SignRequestAt(body []byte, at time.Time) (signature string, timestamp string) {
	timestamp = strconv.FormatInt(at.Unix(), 10)
	return SignRequestWithTimestamp(body, timestamp), timestamp
}

// SignRequestWithTimestamp signs timestamp||body exactly as given.
func SignRequestWithTimestamp(body []byte, timestamp string) string {
	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)
	return hex.EncodeToString(ed25519.Sign(PrivateKey, message))
}

// ExpiredTimestamp returns a timestamp ten seconds in the past.
func ExpiredTimestamp() string {
	return strconv.FormatInt(time.Now().Add(-10*time.Second).Unix(), 10)
}

// ZeroSignature is well formed hex of the right length that never verifies.
func ZeroSignature() string {
	return hex.EncodeToString(make([]byte, ed25519.SignatureSize))
}
