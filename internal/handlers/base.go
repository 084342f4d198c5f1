package handlers

import (
	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/publisher"
)

// DefaultMaxBodyBytes caps the request body read by HandleInteraction.
const DefaultMaxBodyBytes int64 = 1 << 20

// Verifier authenticates a request body against its signature headers.
type Verifier interface {
	Verify(signatureHex, timestamp string, body []byte) error
}

type Handlers struct {
	verifier     Verifier
	publisher    publisher.Publisher
	logger       logging.Logger
	maxBodyBytes int64
}

func New(verifier Verifier, pub publisher.Publisher, maxBodyBytes int64, logger logging.Logger) *Handlers {
	if pub == nil {
		pub = publisher.Noop{}
	}
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &Handlers{
		verifier:     verifier,
		publisher:    pub,
		logger:       logger,
		maxBodyBytes: maxBodyBytes,
	}
}
