package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/DinithaNawanjana/paylanka-devops/internal/payments"
)

const serviceName = "payments-api"

// EventPublisher pushes a notification after a payment is recorded. A nil
// publisher disables eventing entirely.
type EventPublisher interface {
	PublishPaymentRecorded(ctx context.Context, p payments.Payment) error
}

type Handler struct {
	repo            payments.Repository
	publisher       EventPublisher
	defaultCurrency string
	logger          *logrus.Logger
}

func NewHandler(repo payments.Repository, publisher EventPublisher, defaultCurrency string, logger *logrus.Logger) *Handler {
	return &Handler{
		repo:            repo,
		publisher:       publisher,
		defaultCurrency: defaultCurrency,
		logger:          logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"ok":     false,
			"error":  "DB unreachable",
			"detail": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": serviceName,
		"ts":      time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	q := payments.CleanQuery(r.URL.Query().Get("q"))
	limit := payments.ClampLimit(r.URL.Query().Get("limit"))

	rows, err := h.repo.List(r.Context(), q, limit)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	s, err := h.repo.Summarize(r.Context())
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

type createRequest struct {
	Reference string `json:"reference"`
	// AmountCents stays untyped so the validator can coerce both JSON
	// numbers and numeric strings, like the dashboard sends.
	AmountCents any    `json:"amount_cents"`
	Currency    string `json:"currency"`
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	np, err := payments.ValidateNew(req.Reference, req.AmountCents, req.Currency, h.defaultCurrency)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.repo.Create(r.Context(), np)
	if err != nil {
		h.storeError(w, err)
		return
	}

	if h.publisher != nil {
		// Best effort: a broker hiccup must not fail a recorded payment.
		if perr := h.publisher.PublishPaymentRecorded(r.Context(), p); perr != nil {
			h.logger.WithError(perr).Warn("publish payment.recorded")
		}
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := payments.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// storeError maps any repository failure to the uniform 500 shape. The
// detail is exposed on purpose; this is an internal tool and the
// debuggability trade-off is accepted.
func (h *Handler) storeError(w http.ResponseWriter, err error) {
	h.logger.WithError(err).Error("store failure")
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":  "DB error",
		"detail": err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
