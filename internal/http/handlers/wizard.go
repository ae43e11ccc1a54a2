package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/http/middleware"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/http/response"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard"
)

// WizardAPI is the wizard surface the HTTP layer drives.
type WizardAPI interface {
	SubmitTurn(ctx context.Context, in wizard.TurnInput) (wizard.TurnOutput, error)
	Next(ctx context.Context, in wizard.NextInput) (wizard.NextOutput, error)
	History(ctx context.Context, sessionID string) ([]*types.ConversationEntry, error)
	Match(ctx context.Context, in wizard.MatchInput) (wizard.MatchOutput, error)
	Questions(ctx context.Context, language string) ([]wizard.QuestionView, error)
	Question(ctx context.Context, key, language string) (*wizard.QuestionView, error)
}

type WizardHandler struct {
	wizard WizardAPI
}

func NewWizardHandler(w WizardAPI) *WizardHandler {
	return &WizardHandler{wizard: w}
}

type wizardStepRequest struct {
	SessionID   *string `json:"session_id"`
	UserID      *string `json:"user_id"`
	QuestionKey string  `json:"question_key"`
	AnswerKey   *string `json:"answer_key"`
	CustomText  string  `json:"custom_text"`
	Channel     string  `json:"channel"`
	Language    string  `json:"language"`
}

// POST /api/conversation/wizard/step
func (h *WizardHandler) Step(c *gin.Context) {
	var req wizardStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tagSession(c, req.SessionID)
	out, err := h.wizard.SubmitTurn(c.Request.Context(), wizard.TurnInput{
		SessionID:   req.SessionID,
		UserID:      req.UserID,
		QuestionKey: req.QuestionKey,
		AnswerKey:   req.AnswerKey,
		Text:        req.CustomText,
		Channel:     conversation.Channel(req.Channel),
		Language:    req.Language,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

type wizardNextRequest struct {
	SessionID          string  `json:"session_id"`
	CurrentQuestionKey *string `json:"current_question_key"`
	Language           string  `json:"language"`
}

// POST /api/conversation/wizard/next
func (h *WizardHandler) Next(c *gin.Context) {
	var req wizardNextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	tagSession(c, &req.SessionID)
	out, err := h.wizard.Next(c.Request.Context(), wizard.NextInput{
		SessionID:          req.SessionID,
		CurrentQuestionKey: req.CurrentQuestionKey,
		Language:           req.Language,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/conversation/history/:session_id
func (h *WizardHandler) History(c *gin.Context) {
	sessionID := c.Param("session_id")
	tagSession(c, &sessionID)
	entries, err := h.wizard.History(c.Request.Context(), sessionID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if entries == nil {
		entries = []*types.ConversationEntry{}
	}
	response.RespondOK(c, gin.H{"session_id": sessionID, "turns": entries})
}

type matchRequest struct {
	QuestionKey string `json:"question_key"`
	Text        string `json:"text"`
	Strategy    string `json:"strategy"`
}

// POST /api/conversation/match
func (h *WizardHandler) Match(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.wizard.Match(c.Request.Context(), wizard.MatchInput{
		QuestionKey: req.QuestionKey,
		Text:        req.Text,
		Strategy:    req.Strategy,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/questions?language=xx
func (h *WizardHandler) ListQuestions(c *gin.Context) {
	lang := c.Query("language")
	qs, err := h.wizard.Questions(c.Request.Context(), lang)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if qs == nil {
		qs = []wizard.QuestionView{}
	}
	response.RespondOK(c, gin.H{"questions": qs})
}

// GET /api/questions/:key?language=xx
func (h *WizardHandler) GetQuestion(c *gin.Context) {
	q, err := h.wizard.Question(c.Request.Context(), c.Param("key"), c.Query("language"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": q})
}

func tagSession(c *gin.Context, sessionID *string) {
	if sessionID != nil && strings.TrimSpace(*sessionID) != "" {
		c.Set(middleware.SessionIDKey, strings.TrimSpace(*sessionID))
	}
}
