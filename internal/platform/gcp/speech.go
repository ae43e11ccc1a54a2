package gcp

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/httpx"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

// Transcriber turns a short recorded answer into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string, languageCode string) (string, error)
	Close() error
}

type recognizeFunc func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error)

type speechTranscriber struct {
	log        *logger.Logger
	client     *speech.Client
	recognize  recognizeFunc
	maxRetries int
	timeout    time.Duration
}

func NewSpeechTranscriber(ctx context.Context, log *logger.Logger) (Transcriber, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	c, err := speech.NewClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("speech client: %w", err)
	}
	t := &speechTranscriber{
		log:        log.With("client", "SpeechTranscriber"),
		client:     c,
		maxRetries: 3,
		timeout:    time.Minute,
	}
	t.recognize = func(ctx context.Context, req *speechpb.RecognizeRequest) (*speechpb.RecognizeResponse, error) {
		return c.Recognize(ctx, req)
	}
	return t, nil
}

func (s *speechTranscriber) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *speechTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string, languageCode string) (string, error) {
	if len(audio) == 0 {
		return "", nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			LanguageCode:               SpeechLanguageCode(languageCode),
			Encoding:                   inferEncoding(mimeType),
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{AudioSource: &speechpb.RecognitionAudio_Content{Content: audio}},
	}

	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		resp, err := s.recognize(ctx, req)
		if err == nil {
			return joinTranscript(resp), nil
		}
		if !retryableSpeech(err) || attempt >= s.maxRetries {
			return "", fmt.Errorf("speech recognize: %w", err)
		}
		s.log.Warn("speech recognize retrying", "attempt", attempt+1, "error", err.Error())
		if sErr := httpx.Sleep(ctx, httpx.JitterSleep(backoff)); sErr != nil {
			return "", sErr
		}
		backoff *= 2
	}
}

func retryableSpeech(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.DeadlineExceeded:
		return true
	default:
		return false
	}
}

func joinTranscript(resp *speechpb.RecognizeResponse) string {
	if resp == nil {
		return ""
	}
	parts := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r == nil || len(r.Alternatives) == 0 || r.Alternatives[0] == nil {
			continue
		}
		if txt := strings.TrimSpace(r.Alternatives[0].Transcript); txt != "" {
			parts = append(parts, txt)
		}
	}
	return strings.Join(parts, " ")
}

// SpeechLanguageCode expands a session language (ISO 639-1) into the BCP-47
// tag the recognizer expects.
func SpeechLanguageCode(lang string) string {
	lang = strings.TrimSpace(lang)
	if strings.Contains(lang, "-") {
		return lang
	}
	switch strings.ToLower(lang) {
	case "", "en":
		return "en-US"
	case "es":
		return "es-ES"
	case "fr":
		return "fr-FR"
	case "hi":
		return "hi-IN"
	case "de":
		return "de-DE"
	case "it":
		return "it-IT"
	case "pt":
		return "pt-BR"
	case "zh":
		return "cmn-Hans-CN"
	case "ja":
		return "ja-JP"
	default:
		return lang
	}
}

func inferEncoding(mimeType string) speechpb.RecognitionConfig_AudioEncoding {
	m := strings.ToLower(strings.TrimSpace(mimeType))
	ext := strings.ToLower(filepath.Ext(m))
	switch {
	case strings.Contains(m, "wav") || ext == ".wav":
		return speechpb.RecognitionConfig_LINEAR16
	case strings.Contains(m, "flac"):
		return speechpb.RecognitionConfig_FLAC
	case strings.Contains(m, "mpeg") || strings.Contains(m, "mp3"):
		return speechpb.RecognitionConfig_MP3
	case strings.Contains(m, "webm"):
		return speechpb.RecognitionConfig_WEBM_OPUS
	case strings.Contains(m, "ogg") || strings.Contains(m, "opus"):
		return speechpb.RecognitionConfig_OGG_OPUS
	default:
		return speechpb.RecognitionConfig_ENCODING_UNSPECIFIED
	}
}
