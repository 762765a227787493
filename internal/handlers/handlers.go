package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/accounts"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/apperr"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/httputil"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/ledger"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/middleware"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/projects"
)

type Handler struct {
	Accounts *accounts.Service
	Projects *projects.Service
	Ledger   *ledger.Service
	Ping     func(context.Context) error
	// Debug exposes internal error causes in responses.
	Debug bool
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	httputil.WriteAppError(w, r, err, h.Debug)
}

func pathID(r *http.Request, name string) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.InvalidArgument, "invalid "+name)
	}
	return uint(id), nil
}

func currentUserID(r *http.Request) (uint, error) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return 0, apperr.New(apperr.Unauthorized, "user authentication required")
	}
	return claims.UserID, nil
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if h.Ping != nil {
		if err := h.Ping(r.Context()); err != nil {
			h.fail(w, r, apperr.Wrap(apperr.Internal, "database unavailable", err))
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
