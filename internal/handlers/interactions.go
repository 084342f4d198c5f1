package handlers

import (
	"io"
	"net/http"

	"interactions-relay/internal/common/logging"
	"interactions-relay/internal/interaction"
	"interactions-relay/internal/signature"
)

const (
	msgReadFailed       = "failed to read body"
	msgInvalidSignature = "invalid signature"
	msgInvalidJSON      = "invalid JSON"
	msgUnsupportedType  = "unsupported interaction type"
)

// HandleInteraction verifies, classifies and answers an interaction
// request. Application commands are handed to the publisher before the
// deferred reply is written; the reply never waits for delivery.
func (h *Handlers) HandleInteraction(w http.ResponseWriter, r *http.Request) {
	logger := h.logger.WithContext(r.Context())

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		logger.Warn("Failed to read interaction body", logging.Err(err))
		WriteError(w, http.StatusBadRequest, msgReadFailed)
		return
	}

	sig := r.Header.Get(signature.HeaderSignature)
	timestamp := r.Header.Get(signature.HeaderTimestamp)
	if err := h.verifier.Verify(sig, timestamp, body); err != nil {
		logger.Warn("Rejected interaction signature", logging.Err(err))
		WriteError(w, http.StatusUnauthorized, msgInvalidSignature)
		return
	}

	in, err := interaction.Classify(body)
	if err != nil {
		logger.Warn("Rejected malformed interaction", logging.Err(err))
		WriteError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	action := interaction.Decide(in.Type)
	response, ok := interaction.ResponseFor(action)
	if !ok {
		logger.Info("Unsupported interaction type",
			logging.Int("interaction_type", int(in.Type)),
		)
		WriteError(w, http.StatusBadRequest, msgUnsupportedType)
		return
	}

	if action == interaction.ActionDefer {
		event := interaction.Sanitize(in)
		h.publisher.Publish(event)
		logger.Debug("Deferred interaction",
			logging.String("interaction_id", event.ID()),
		)
	}

	writeJSON(w, http.StatusOK, response)
}
