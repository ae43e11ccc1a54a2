package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/http/response"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/services"
)

var errDeliveryDisabled = errors.New("delivery partner credentials are not configured")

type DeliveryHandler struct {
	delivery services.DeliveryService
}

func NewDeliveryHandler(delivery services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{delivery: delivery}
}

// POST /api/delivery
func (h *DeliveryHandler) Create(c *gin.Context) {
	if h.delivery == nil || !h.delivery.Enabled() {
		response.RespondError(c, http.StatusServiceUnavailable, "delivery_disabled", errDeliveryDisabled)
		return
	}
	var req services.CreateDeliveryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.delivery.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"delivery": out})
}
