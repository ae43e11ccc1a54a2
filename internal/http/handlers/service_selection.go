package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/http/response"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/services"
)

type ServiceSelectionHandler struct {
	selection services.ServiceSelectionService
}

func NewServiceSelectionHandler(selection services.ServiceSelectionService) *ServiceSelectionHandler {
	return &ServiceSelectionHandler{selection: selection}
}

type selectServiceRequest struct {
	UserID    string `json:"user_id"`
	Text      string `json:"text"`
	InputType string `json:"input_type"`
}

// POST /api/services/select
func (h *ServiceSelectionHandler) Select(c *gin.Context) {
	var req selectServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.selection.Select(c.Request.Context(), services.SelectServiceInput{
		UserID:    req.UserID,
		Text:      req.Text,
		InputType: req.InputType,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/services
func (h *ServiceSelectionHandler) List(c *gin.Context) {
	list, err := h.selection.ListActive(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"services": list})
}

// GET /api/services/user/:user_id
func (h *ServiceSelectionHandler) ListByUser(c *gin.Context) {
	userID := c.Param("user_id")
	list, err := h.selection.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": userID, "selections": list})
}
