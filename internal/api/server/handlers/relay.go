package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bz888/saturday/internal/api/server/client"
	"github.com/bz888/saturday/internal/logger"
	"github.com/google/uuid"
)

// FailureMessage is the body of every failed relay response.
const FailureMessage = "Ollama request failed"

const RequestIDHeader = "X-Request-Id"

// RelayHandler forwards a conversation to the model server and pipes the
// NDJSON reply back untouched. It never retries and never inspects the
// upstream payload.
func (h *Handler) RelayHandler(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	localLogger := logger.NewLogger("Relay").With(requestID)
	w.Header().Set(RequestIDHeader, requestID)

	var clientReq client.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&clientReq); err != nil {
		localLogger.Warn("Bad request body: ", err)
		relayFailure(w)
		return
	}
	defer r.Body.Close()

	apiReq := client.OllamaChatRequest{
		Model:    h.model,
		Messages: clientReq.Messages,
		Stream:   true,
		Options:  clientReq.Options,
	}
	if apiReq.Messages == nil {
		apiReq.Messages = []client.OllamaMessage{}
	}

	body, err := h.ollamaClient.ChatStream(r.Context(), &apiReq)
	if err != nil {
		localLogger.Error("Upstream failed: ", err)
		relayFailure(w)
		return
	}
	defer body.Close()

	localLogger.Info("Relaying ", len(apiReq.Messages), " messages to ", h.model)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	n, err := copyFlushing(w, body)
	if err != nil {
		if r.Context().Err() != nil {
			localLogger.Info("Client went away after ", n, " bytes")
		} else {
			localLogger.Warn("Relay stopped after ", n, " bytes: ", err)
		}
		return
	}
	localLogger.Info("Relay finished, ", n, " bytes")
}

func relayFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	io.WriteString(w, FailureMessage)
}

// copyFlushing copies src to w, flushing after every read so each upstream
// chunk reaches the caller as soon as it arrives.
func copyFlushing(w http.ResponseWriter, src io.Reader) (int64, error) {
	flusher, _ := w.(http.Flusher)
	buf := make([]byte, 32<<10)
	var total int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			written, werr := w.Write(buf[:n])
			total += int64(written)
			if werr != nil {
				return total, werr
			}
			if flusher != nil {
				flusher.Flush()
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return total, nil
			}
			return total, err
		}
	}
}
