package services

import (
	"context"
	"strings"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/txn"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/dbctx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/gcp"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// MaxVoiceAudioBytes bounds a single uploaded answer. Synchronous
// recognition only accepts about a minute of audio.
const MaxVoiceAudioBytes = 10 << 20

type TurnSubmitter interface {
	SubmitTurn(ctx context.Context, in wizard.TurnInput) (wizard.TurnOutput, error)
}

type VoiceTurnInput struct {
	SessionID   *string
	UserID      *string
	QuestionKey string
	Language    string
	Audio       []byte
	MimeType    string
}

type VoiceTurnOutput struct {
	wizard.TurnOutput
	Transcript   string `json:"transcript"`
	LanguageCode string `json:"language_code"`
}

type VoiceService interface {
	Enabled() bool
	SubmitAudio(ctx context.Context, in VoiceTurnInput) (*VoiceTurnOutput, error)
}

type voiceService struct {
	log         *logger.Logger
	transcriber gcp.Transcriber
	sessions    repos.SessionRepo
	turns       TurnSubmitter
}

func NewVoiceService(baseLog *logger.Logger, transcriber gcp.Transcriber, sessions repos.SessionRepo, turns TurnSubmitter) VoiceService {
	return &voiceService{
		log:         baseLog.With("service", "VoiceService"),
		transcriber: transcriber,
		sessions:    sessions,
		turns:       turns,
	}
}

func (s *voiceService) Enabled() bool { return s.transcriber != nil }

func (s *voiceService) SubmitAudio(ctx context.Context, in VoiceTurnInput) (*VoiceTurnOutput, error) {
	const op = "voice.submit"
	if s.transcriber == nil {
		return nil, errs.Unavailable(op, "speech transcription")
	}
	if strings.TrimSpace(in.QuestionKey) == "" {
		return nil, errs.Validation(op, "question_key is required")
	}
	if len(in.Audio) == 0 {
		return nil, errs.Validation(op, "audio is empty")
	}
	if len(in.Audio) > MaxVoiceAudioBytes {
		return nil, errs.Validation(op, "audio exceeds %d bytes", MaxVoiceAudioBytes)
	}

	lang := strings.TrimSpace(in.Language)
	if lang == "" && in.SessionID != nil {
		sess, err := s.sessions.GetByID(dbctx.Context{Ctx: ctx}, *in.SessionID)
		if err != nil {
			return nil, txn.MapError(op, err)
		}
		lang = sess.LanguageOrDefault()
	}
	code := gcp.SpeechLanguageCode(lang)

	transcript, err := s.transcriber.Transcribe(ctx, in.Audio, in.MimeType, code)
	if err != nil {
		return nil, errs.Transport(op, err)
	}
	s.log.Debug("audio transcribed", "language_code", code, "chars", len(transcript))

	turn, err := s.turns.SubmitTurn(ctx, wizard.TurnInput{
		SessionID:   in.SessionID,
		UserID:      in.UserID,
		QuestionKey: in.QuestionKey,
		Text:        transcript,
		Channel:     conversation.ChannelVoice,
		Language:    strings.TrimSpace(in.Language),
	})
	if err != nil {
		return nil, err
	}
	return &VoiceTurnOutput{TurnOutput: turn, Transcript: transcript, LanguageCode: code}, nil
}
