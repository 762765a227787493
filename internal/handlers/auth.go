package handlers

import (
	"net/http"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/accounts"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/httputil"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/middleware"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
)

type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	AdminCode string `json:"adminCode,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	Token   string       `json:"token"`
	User    *models.User `json:"user"`
}

func (h *Handler) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.Accounts.Signup(r.Context(), accounts.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, AuthResponse{Message: "user created successfully", Token: sess.Token, User: sess.User})
}

func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.Accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuthResponse{Message: "login successful", Token: sess.Token, User: sess.User})
}

func (h *Handler) AdminSignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.Accounts.AdminSignup(r.Context(),
		accounts.SignupInput{Name: req.Name, Email: req.Email, Password: req.Password}, req.AdminCode)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, AuthResponse{Message: "admin user created successfully", Token: sess.Token, User: sess.User})
}

func (h *Handler) AdminLoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	sess, err := h.Accounts.AdminLogin(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, AuthResponse{Message: "admin login successful", Token: sess.Token, User: sess.User})
}

func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteError(w, http.StatusUnauthorized, "user authentication required")
		return
	}
	u, err := h.Accounts.User(r.Context(), claims.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "user": u})
}
