package handlers

import (
	"net/http"
	"strings"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/httputil"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/ledger"
	"github.com/shopspring/decimal"
)

type MakeDonationRequest struct {
	ProjectID     uint            `json:"projectId"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         *string         `json:"notes"`
}

func (h *Handler) DonationHistoryHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	history, err := h.Ledger.ListDonationsForUser(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "data": history})
}

// MakeDonationHandler checks only field presence; amount and project checks
// belong to the ledger so they run in its order.
func (h *Handler) MakeDonationHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUserID(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req MakeDonationRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.ProjectID == 0 || strings.TrimSpace(req.PaymentMethod) == "" {
		h.fail(w, r, apperr.New(apperr.InvalidArgument, "project id, amount, and payment method are required"))
		return
	}

	donation, err := h.Ledger.RecordDonation(r.Context(), ledger.DonationRequest{
		UserID:        userID,
		ProjectID:     req.ProjectID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":   "success",
		"message":  "donation created successfully",
		"donation": donation,
	})
}
