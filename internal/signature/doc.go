// Package signature verifies Ed25519 signed interaction requests.
//
// Every inbound request carries two headers: X-Signature-Ed25519, the hex
// encoded 64 byte signature, and X-Signature-Timestamp, a decimal count of
// seconds since the Unix epoch. The signed message is the literal timestamp
// string followed by the raw request body, byte for byte:
//
//	message = timestamp || body
//
// A request is accepted only when the signature verifies against the
// application public key and the timestamp is no older than the replay
// window (five seconds by default).
//
// # Usage
//
//	key, err := signature.ParsePublicKey(os.Getenv("DISCORD_PUBLIC_KEY"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	verifier := signature.NewVerifier(key)
//	if err := verifier.Verify(sigHex, timestamp, body); err != nil {
//	    http.Error(w, "invalid signature", http.StatusUnauthorized)
//	    return
//	}
//
// # Future timestamps
//
// Only staleness is bounded. A timestamp ahead of the local clock is
// accepted unless WithMaxFutureSkew is set, which rejects timestamps more
// than the given duration in the future.
//
// # Security Considerations
//
//   - The body must be the exact bytes received; never re-serialize it
//   - Callers should report every failure identically to the client
//   - Signature comparison is left to crypto/ed25519
package signature
