package handlers

import (
	"net/http"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/httputil"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/projects"
	"github.com/shopspring/decimal"
)

type CreateProjectRequest struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	GoalAmount  decimal.Decimal `json:"goalAmount"`
}

type UpdateProjectRequest struct {
	Name        *string               `json:"name"`
	Description *string               `json:"description"`
	GoalAmount  *decimal.Decimal      `json:"goalAmount"`
	Status      *models.ProjectStatus `json:"status"`
}

func (h *Handler) ListProjectsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := h.Projects.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "success",
		"results":  len(list),
		"projects": list,
	})
}

func (h *Handler) GetProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Projects.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "project": p})
}

func (h *Handler) CreateProjectHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Projects.Create(r.Context(), projects.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"status":  "success",
		"message": "project created successfully",
		"project": p,
	})
}

func (h *Handler) UpdateProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req UpdateProjectRequest
	if err := httputil.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.Projects.Update(r.Context(), id, projects.UpdateInput{
		Name:        req.Name,
		Description: req.Description,
		GoalAmount:  req.GoalAmount,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "project updated successfully",
		"project": p,
	})
}

func (h *Handler) DeleteProjectHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Projects.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": "project deleted successfully",
	})
}
