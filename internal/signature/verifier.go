package signature

import (
	"crypto/ed25519"
	"encoding/hex"
	"strconv"
	"time"

	"interactions-relay/internal/common/logging"
)

const (
	// HeaderSignature carries the hex encoded Ed25519 signature.
	HeaderSignature = "X-Signature-Ed25519"
	// HeaderTimestamp carries the signing time in decimal Unix seconds.
	HeaderTimestamp = "X-Signature-Timestamp"

	// DefaultMaxAge is the replay window applied when none is configured.
	DefaultMaxAge = 5 * time.Second
)

// Verifier checks interaction request signatures against one public key.
// It is safe for concurrent use.
type Verifier struct {
	publicKey     ed25519.PublicKey
	maxAge        time.Duration
	maxFutureSkew time.Duration
	now           func() time.Time
	logger        logging.Logger
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) {
		v.now = now
	}
}

// WithMaxAge sets the replay window. Non-positive values keep the default.
func WithMaxAge(maxAge time.Duration) Option {
	return func(v *Verifier) {
		if maxAge > 0 {
			v.maxAge = maxAge
		}
	}
}

// WithMaxFutureSkew rejects timestamps more than skew ahead of the clock.
// Zero disables the check.
func WithMaxFutureSkew(skew time.Duration) Option {
	return func(v *Verifier) {
		if skew >= 0 {
			v.maxFutureSkew = skew
		}
	}
}

// WithLogger sets the logger used for debug output on rejection.
func WithLogger(logger logging.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewVerifier creates a verifier for publicKey.
func NewVerifier(publicKey ed25519.PublicKey, opts ...Option) *Verifier {
	v := &Verifier{
		publicKey: publicKey,
		maxAge:    DefaultMaxAge,
		now:       time.Now,
		logger:    logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify reports why a request fails verification, or nil if it passes.
// body must be the exact bytes received on the wire.
func (v *Verifier) Verify(signatureHex, timestamp string, body []byte) error {
	err := v.verify(signatureHex, timestamp, body)
	if err != nil {
		v.logger.Debug("Signature rejected", logging.Err(err))
	}
	return err
}

// Valid is Verify as a predicate.
func (v *Verifier) Valid(signatureHex, timestamp string, body []byte) bool {
	return v.Verify(signatureHex, timestamp, body) == nil
}

func (v *Verifier) verify(signatureHex, timestamp string, body []byte) error {
	if len(v.publicKey) != ed25519.PublicKeySize {
		return NewVerificationError("", ErrInvalidPublicKey, "got %d bytes, want %d", len(v.publicKey), ed25519.PublicKeySize)
	}
	if signatureHex == "" {
		return NewVerificationError(HeaderSignature, ErrMissingSignature, "header is empty")
	}
	if timestamp == "" {
		return NewVerificationError(HeaderTimestamp, ErrMissingTimestamp, "header is empty")
	}

	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return NewVerificationError(HeaderSignature, ErrMalformedSignature, "not hex")
	}
	if len(sig) != ed25519.SignatureSize {
		return NewVerificationError(HeaderSignature, ErrMalformedSignature, "got %d bytes, want %d", len(sig), ed25519.SignatureSize)
	}

	signedAt, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return NewVerificationError(HeaderTimestamp, ErrMalformedTimestamp, "not a decimal integer")
	}

	// Timestamps have whole second resolution, so truncating the window
	// to whole seconds admits exactly the same ages.
	now := v.now().Unix()
	if age := now - signedAt; age > int64(v.maxAge/time.Second) {
		return NewVerificationError(HeaderTimestamp, ErrTimestampExpired, "age %ds", age)
	}
	if v.maxFutureSkew > 0 {
		if ahead := signedAt - now; ahead > int64(v.maxFutureSkew/time.Second) {
			return NewVerificationError(HeaderTimestamp, ErrTimestampInFuture, "%ds ahead", ahead)
		}
	}

	message := make([]byte, 0, len(timestamp)+len(body))
	message = append(message, timestamp...)
	message = append(message, body...)

	if !ed25519.Verify(v.publicKey, message, sig) {
		return NewVerificationError(HeaderSignature, ErrInvalidSignature, "")
	}
	return nil
}
