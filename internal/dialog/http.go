package dialog

import (
	"encoding/json"
	"io"
	"net/http"

	apperrors "dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/common/validation"
	"dining-concierge/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const maxEventBytes = 64 << 10

// HTTPHandler exposes the controller as the front-end code hook.
type HTTPHandler struct {
	controller *Controller
	schema     *validation.SchemaValidator
	logger     logger.Logger
}

type errorBody struct {
	ErrorCode string   `json:"errorCode"`
	Message   string   `json:"message"`
	Details   []string `json:"details,omitempty"`
}

func NewHTTPHandler(controller *Controller, schema *validation.SchemaValidator, log logger.Logger) *HTTPHandler {
	return &HTTPHandler{controller: controller, schema: schema, logger: log}
}

// Register mounts POST /dialog on r.
func (h *HTTPHandler) Register(r chi.Router) {
	r.Post("/dialog", h.handleDialog)
}

func (h *HTTPHandler) handleDialog(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBytes))
	if err != nil {
		h.writeError(w, r, apperrors.NewInvalidEventError(err), nil)
		return
	}

	res, err := h.schema.Validate(body)
	if err != nil {
		h.writeError(w, r, apperrors.NewInvalidEventError(err), nil)
		return
	}
	if !res.Valid {
		h.writeError(w, r, apperrors.NewInvalidEventError(nil), res.GetErrorMessages())
		return
	}

	var ev models.DialogEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		h.writeError(w, r, apperrors.NewInvalidEventError(err), nil)
		return
	}

	turn, err := h.controller.Handle(r.Context(), &ev)
	if err != nil {
		h.writeError(w, r, err, nil)
		return
	}

	metrics.DialogTurns.WithLabelValues(turn.Intent, string(turn.State)).Inc()
	writeJSON(w, http.StatusOK, turn.Response)
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, err error, details []string) {
	se := apperrors.AsStandardError(err)
	metrics.DialogErrors.WithLabelValues(string(se.Code)).Inc()

	h.logger.Warn("dialog turn failed", map[string]interface{}{
		"requestId": middleware.GetReqID(r.Context()),
		"errorCode": string(se.Code),
		"error":     err,
	})

	writeJSON(w, statusFor(se.Code), errorBody{
		ErrorCode: string(se.Code),
		Message:   se.Message,
		Details:   details,
	})
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidEvent, apperrors.ErrCodeUnsupportedIntent, apperrors.ErrCodeValidationFailed:
		return http.StatusBadRequest
	case apperrors.ErrCodeQueueUnavailable:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
