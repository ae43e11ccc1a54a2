package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/http/response"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/services"
)

var errSpeechDisabled = errors.New("speech transcription is not configured")

type VoiceHandler struct {
	voice services.VoiceService
}

func NewVoiceHandler(voice services.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: voice}
}

// POST /api/conversation/voice/audio (multipart: audio, question_key, session_id?, user_id?, language?)
func (h *VoiceHandler) SubmitAudio(c *gin.Context) {
	if h.voice == nil || !h.voice.Enabled() {
		response.RespondError(c, http.StatusServiceUnavailable, "speech_disabled", errSpeechDisabled)
		return
	}
	fh, err := c.FormFile("audio")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "missing_audio", err)
		return
	}
	if fh.Size > services.MaxVoiceAudioBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "audio_too_large",
			fmt.Errorf("audio exceeds %d bytes", services.MaxVoiceAudioBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_audio", err)
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, services.MaxVoiceAudioBytes+1))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_audio", err)
		return
	}

	sessionID := optionalForm(c, "session_id")
	tagSession(c, sessionID)
	out, err := h.voice.SubmitAudio(c.Request.Context(), services.VoiceTurnInput{
		SessionID:   sessionID,
		UserID:      optionalForm(c, "user_id"),
		QuestionKey: c.PostForm("question_key"),
		Language:    c.PostForm("language"),
		Audio:       audio,
		MimeType:    fh.Header.Get("Content-Type"),
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out)
}

func optionalForm(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok || v == "" {
		return nil
	}
	return &v
}
