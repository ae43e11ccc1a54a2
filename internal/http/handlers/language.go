package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/http/response"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/services"
)

type LanguageHandler struct {
	languages services.LanguageService
}

func NewLanguageHandler(languages services.LanguageService) *LanguageHandler {
	return &LanguageHandler{languages: languages}
}

type selectLanguageRequest struct {
	SessionID *string `json:"session_id"`
	UserID    *string `json:"user_id"`
	Text      string  `json:"text"`
	InputType string  `json:"input_type"`
}

// POST /api/language/select
func (h *LanguageHandler) Select(c *gin.Context) {
	var req selectLanguageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.languages.Select(c.Request.Context(), services.SelectLanguageInput{
		SessionID: req.SessionID,
		UserID:    req.UserID,
		Text:      req.Text,
		InputType: req.InputType,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	tagSession(c, &out.SessionID)
	response.RespondOK(c, out)
}

// GET /api/language/:session_id
func (h *LanguageHandler) SessionLanguage(c *gin.Context) {
	sessionID := c.Param("session_id")
	lang, err := h.languages.SessionLanguage(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"session_id": sessionID, "language_code": lang})
}

// GET /api/languages
func (h *LanguageHandler) List(c *gin.Context) {
	langs, err := h.languages.ListActive(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"languages": langs})
}
