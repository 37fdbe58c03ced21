package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"fapshi-payment-facade/internal/domain"
	"fapshi-payment-facade/internal/usecase"
)

type errorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a classified error onto the caller JSON contract. The
// NormalizedError's HTTPStatus is authoritative; anything unclassified is a
// plain 500 so no raw fault ever escapes to the transport layer.
func writeError(w http.ResponseWriter, err error) {
	var nerr *domain.NormalizedError
	if errors.As(err, &nerr) {
		writeJSON(w, nerr.HTTPStatus, errorResponse{
			Success: false,
			Error:   nerr.Message,
			Details: nerr.RawDetails,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Success: false,
		Error:   "Internal server error",
	})
}

func (s *Server) handleInitiatePayment(w http.ResponseWriter, r *http.Request) {
	var in usecase.PaymentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: "Invalid request body"})
		return
	}

	res, err := s.payUC.InitiatePayment(r.Context(), in, requestBaseURL(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success       bool   `json:"success"`
		PaymentLink   string `json:"paymentLink"`
		ExternalID    string `json:"externalId"`
		TransactionID string `json:"transactionId"`
		Message       string `json:"message"`
		Mode          string `json:"mode"`
	}{
		Success:       true,
		PaymentLink:   res.PaymentLink,
		ExternalID:    res.ExternalID,
		TransactionID: res.TransactionID,
		Message:       "Payment initiated successfully",
		Mode:          res.Mode,
	})
}

func (s *Server) handleInitiatePayout(w http.ResponseWriter, r *http.Request) {
	var in usecase.PayoutInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: "Invalid request body"})
		return
	}

	res, err := s.payUC.InitiatePayout(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Success    bool                   `json:"success"`
		PayoutID   string                 `json:"payoutId"`
		ExternalID string                 `json:"externalId"`
		Status     string                 `json:"status"`
		Message    string                 `json:"message"`
		Data       map[string]interface{} `json:"data"`
	}{
		Success:    true,
		PayoutID:   res.PayoutID,
		ExternalID: res.ExternalID,
		Status:     res.Status,
		Message:    "Payout initiated successfully",
		Data:       res.Raw,
	})
}

// handleWebhook acknowledges gateway status callbacks. The payload is logged
// for a future reconciliation layer; signatures are not verified here.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Success: false, Error: "Invalid request body"})
		return
	}

	s.log.Info().Interface("payload", payload).Msg("webhook received")

	writeJSON(w, http.StatusOK, struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}{Success: true, Message: "Webhook received"})
}
