package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/mattjoyce/inlet/internal/message"
	"github.com/mattjoyce/inlet/internal/metrics"
	"github.com/mattjoyce/inlet/internal/webhook"
)

// handleWebhook runs the ingestion pipeline for one delivery:
// signature check, payload validation, idempotent insert.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Raw bytes first: the signature covers the body as sent, not a reparse.
	limitedReader := io.LimitReader(r.Body, s.config.MaxBodySize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondError(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	signature := r.Header.Get("X-Signature")
	if err := webhook.VerifySignature(body, signature, s.config.WebhookSecret); err != nil {
		s.metrics.IncWebhookResult(metrics.ResultInvalidSignature)
		s.logger.Warn("webhook signature rejected", "path", r.URL.Path)
		s.respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	msg, verr := message.ParsePayload(body)
	if verr != nil {
		s.metrics.IncWebhookResult(metrics.ResultValidationError)
		s.logger.Warn("webhook payload rejected",
			"kind", verr.Kind,
			"field", verr.Field,
		)
		s.respondError(w, http.StatusUnprocessableEntity, verr.Error())
		return
	}

	msg.PayloadHash = webhook.Digest(body)
	outcome, err := s.store.Insert(ctx, msg)
	if err != nil {
		s.metrics.IncWebhookResult(metrics.ResultStorageError)
		s.logger.Error("webhook insert failed", "message_id", msg.MessageID, "error", err)
		s.respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	result := outcome.Result()
	s.metrics.IncWebhookResult(result)

	if wl := webhookLogFrom(ctx); wl != nil {
		wl.MessageID = msg.MessageID
		wl.Dup = !outcome.Created
		wl.Result = result
	}

	if outcome.PayloadChanged {
		s.logger.Warn("duplicate delivery with different payload",
			"message_id", msg.MessageID,
			"payload_changed", true,
		)
	}

	// Duplicates are a successful no-op: senders may retry safely.
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleMessages handles GET /messages with sanitized pagination.
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	q := message.Query{
		Limit:    parseIntParam(r.URL.Query().Get("limit"), DefaultLimit),
		Offset:   parseIntParam(r.URL.Query().Get("offset"), 0),
		From:     r.URL.Query().Get("from"),
		Since:    r.URL.Query().Get("since"),
		Contains: r.URL.Query().Get("q"),
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > s.config.MaxPageSize {
		q.Limit = s.config.MaxPageSize
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	msgs, total, err := s.store.List(r.Context(), q)
	if err != nil {
		s.logger.Error("list messages failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}

	s.respondJSON(w, http.StatusOK, MessagesResponse{
		Data:   msgs,
		Total:  total,
		Limit:  q.Limit,
		Offset: q.Offset,
	})
}

// handleStats handles GET /stats. Aggregates are computed fresh per call.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.logger.Error("stats failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "storage unavailable")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

// handleHealthLive handles GET /health/live: always ok once the process is up.
func (s *Server) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleHealthReady handles GET /health/ready: the store must answer and the
// secret must be configured. A degraded start stays visible here as 503.
func (s *Server) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	if s.config.WebhookSecret == "" {
		s.respondError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("readiness probe failed", "error", err)
		s.respondError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	s.respondJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
