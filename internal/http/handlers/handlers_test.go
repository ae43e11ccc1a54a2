package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	types "github.com/HariKrishnaKumar/bitewise-backend/internal/domain"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard/steps"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/services"
)

type fakeWizard struct {
	turnIn  wizard.TurnInput
	nextIn  wizard.NextInput
	matchIn wizard.MatchInput
	err     error
}

func (f *fakeWizard) SubmitTurn(_ context.Context, in wizard.TurnInput) (wizard.TurnOutput, error) {
	f.turnIn = in
	if f.err != nil {
		return wizard.TurnOutput{}, f.err
	}
	key := "veg_key"
	return wizard.TurnOutput{
		Entry:             &types.ConversationEntry{ID: 7, QuestionKey: in.QuestionKey, AnswerKey: &key},
		Matched:           true,
		ResolvedAnswerKey: &key,
		Outcome:           steps.OutcomeResolved,
	}, nil
}

func (f *fakeWizard) Next(_ context.Context, in wizard.NextInput) (wizard.NextOutput, error) {
	f.nextIn = in
	if f.err != nil {
		return wizard.NextOutput{}, f.err
	}
	return wizard.NextOutput{Question: &steps.QuestionView{Key: "cuisine_type", Order: 2}}, nil
}

func (f *fakeWizard) History(_ context.Context, sessionID string) ([]*types.ConversationEntry, error) {
	return nil, f.err
}

func (f *fakeWizard) Match(_ context.Context, in wizard.MatchInput) (wizard.MatchOutput, error) {
	f.matchIn = in
	return wizard.MatchOutput{QuestionKey: in.QuestionKey, Strategy: "matcher"}, f.err
}

func (f *fakeWizard) Questions(_ context.Context, language string) ([]wizard.QuestionView, error) {
	return []wizard.QuestionView{{Key: "dietary_preference", Language: language}}, f.err
}

func (f *fakeWizard) Question(_ context.Context, key, language string) (*wizard.QuestionView, error) {
	if key != "dietary_preference" {
		return nil, errs.NewError(errs.CodeNotFound, "wizard.question", "question not found", nil)
	}
	return &wizard.QuestionView{Key: key, Language: language}, nil
}

func serve(t *testing.T, method, path string, body []byte, contentType string, register func(r *gin.Engine)) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env, _ := decode(t, rec)["error"].(map[string]any)
	code, _ := env["code"].(string)
	return code
}

func TestWizardStep(t *testing.T) {
	fw := &fakeWizard{}
	h := NewWizardHandler(fw)
	body := []byte(`{"session_id":"s-1","question_key":"dietary_preference","answer_key":"veg_key","channel":"select"}`)
	rec := serve(t, http.MethodPost, "/step", body, "application/json", func(r *gin.Engine) { r.POST("/step", h.Step) })
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out["matched"] != true || out["resolution"] != "resolved" || out["resolved_answer_key"] != "veg_key" {
		t.Fatalf("response=%v", out)
	}
	if turn, _ := out["turn"].(map[string]any); turn == nil {
		t.Fatalf("turn missing: %v", out)
	}
	if fw.turnIn.Channel != conversation.ChannelSelect || fw.turnIn.SessionID == nil || *fw.turnIn.SessionID != "s-1" {
		t.Fatalf("turn input=%+v", fw.turnIn)
	}
}

func TestWizardStepErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
		code   string
	}{
		{"malformed json", `{"question_key":`, nil, http.StatusBadRequest, "invalid_request"},
		{"validation", `{"question_key":"nope","channel":"voice"}`, errs.Validation("wizard.turn", "unknown question"), http.StatusBadRequest, "validation"},
		{"store failure", `{"question_key":"q","channel":"voice"}`, errs.NewError(errs.CodePersistence, "wizard.record", "db down", nil), http.StatusInternalServerError, "persistence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewWizardHandler(&fakeWizard{err: tc.err})
			rec := serve(t, http.MethodPost, "/step", []byte(tc.body), "application/json", func(r *gin.Engine) { r.POST("/step", h.Step) })
			if rec.Code != tc.status || errorCode(t, rec) != tc.code {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestWizardNextHistoryAndCatalog(t *testing.T) {
	fw := &fakeWizard{}
	h := NewWizardHandler(fw)
	register := func(r *gin.Engine) {
		r.POST("/next", h.Next)
		r.GET("/history/:session_id", h.History)
		r.GET("/questions", h.ListQuestions)
		r.GET("/questions/:key", h.GetQuestion)
		r.POST("/match", h.Match)
	}

	rec := serve(t, http.MethodPost, "/next", []byte(`{"session_id":"s-1","current_question_key":"dietary_preference"}`), "application/json", register)
	if rec.Code != http.StatusOK || fw.nextIn.CurrentQuestionKey == nil || *fw.nextIn.CurrentQuestionKey != "dietary_preference" {
		t.Fatalf("next status=%d input=%+v", rec.Code, fw.nextIn)
	}
	if q, _ := decode(t, rec)["question"].(map[string]any); q["question_key"] != "cuisine_type" {
		t.Fatalf("next body=%s", rec.Body.String())
	}

	rec = serve(t, http.MethodGet, "/history/s-1", nil, "", register)
	if turns, ok := decode(t, rec)["turns"].([]any); rec.Code != http.StatusOK || !ok || len(turns) != 0 {
		t.Fatalf("history=%s", rec.Body.String())
	}

	rec = serve(t, http.MethodGet, "/questions?language=hi", nil, "", register)
	if qs, _ := decode(t, rec)["questions"].([]any); len(qs) != 1 {
		t.Fatalf("questions=%s", rec.Body.String())
	}
	rec = serve(t, http.MethodGet, "/questions/unknown", nil, "", register)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown question status=%d", rec.Code)
	}

	rec = serve(t, http.MethodPost, "/match", []byte(`{"question_key":"dietary_preference","text":"veggie","strategy":"matcher"}`), "application/json", register)
	if rec.Code != http.StatusOK || fw.matchIn.Text != "veggie" || fw.matchIn.Strategy != "matcher" {
		t.Fatalf("match status=%d input=%+v", rec.Code, fw.matchIn)
	}
}

type fakeLanguages struct {
	in  services.SelectLanguageInput
	err error
}

func (f *fakeLanguages) Detect(context.Context, string) []string { return []string{"English"} }

func (f *fakeLanguages) Select(_ context.Context, in services.SelectLanguageInput) (*services.LanguageSelection, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &services.LanguageSelection{SessionID: "generated", Language: "English", LanguageCode: "en", DetectedLanguages: []string{"English"}}, nil
}

func (f *fakeLanguages) SessionLanguage(context.Context, string) (string, error) { return "es", nil }

func (f *fakeLanguages) ListActive(context.Context) ([]*types.Language, error) {
	return []*types.Language{{Code: "en", Name: "English"}}, nil
}

func TestLanguageHandler(t *testing.T) {
	fl := &fakeLanguages{}
	h := NewLanguageHandler(fl)
	register := func(r *gin.Engine) {
		r.POST("/select", h.Select)
		r.GET("/language/:session_id", h.SessionLanguage)
		r.GET("/languages", h.List)
	}

	rec := serve(t, http.MethodPost, "/select", []byte(`{"text":"I don't know Chinese","input_type":"voice"}`), "application/json", register)
	out := decode(t, rec)
	if rec.Code != http.StatusOK || out["language_code"] != "en" || out["session_id"] != "generated" {
		t.Fatalf("select=%s", rec.Body.String())
	}
	if fl.in.InputType != "voice" || fl.in.SessionID != nil {
		t.Fatalf("select input=%+v", fl.in)
	}

	rec = serve(t, http.MethodGet, "/language/s-1", nil, "", register)
	if decode(t, rec)["language_code"] != "es" {
		t.Fatalf("session language=%s", rec.Body.String())
	}
	rec = serve(t, http.MethodGet, "/languages", nil, "", register)
	if langs, _ := decode(t, rec)["languages"].([]any); len(langs) != 1 {
		t.Fatalf("languages=%s", rec.Body.String())
	}

	bad := NewLanguageHandler(&fakeLanguages{err: errs.Validation("language.select", "text is required")})
	rec = serve(t, http.MethodPost, "/select", []byte(`{"text":""}`), "application/json", func(r *gin.Engine) { r.POST("/select", bad.Select) })
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty text status=%d", rec.Code)
	}
}

type fakeSelection struct{ in services.SelectServiceInput }

func (f *fakeSelection) Detect(context.Context, string) []string { return []string{"Pickup"} }

func (f *fakeSelection) Select(_ context.Context, in services.SelectServiceInput) (*services.ServiceSelection, error) {
	f.in = in
	return &services.ServiceSelection{UserID: in.UserID, Service: "Pickup", DetectedServices: []string{"Pickup"}}, nil
}

func (f *fakeSelection) ListActive(context.Context) ([]*types.Service, error) {
	return []*types.Service{{ServiceName: "Delivery", IsActive: true}}, nil
}

func (f *fakeSelection) ListByUser(_ context.Context, userID string) ([]*types.UserService, error) {
	return []*types.UserService{{UserID: userID, InputType: "text"}}, nil
}

func TestServiceSelectionHandler(t *testing.T) {
	fs := &fakeSelection{}
	h := NewServiceSelectionHandler(fs)
	register := func(r *gin.Engine) {
		r.POST("/select", h.Select)
		r.GET("/services", h.List)
		r.GET("/services/user/:user_id", h.ListByUser)
	}
	rec := serve(t, http.MethodPost, "/select", []byte(`{"user_id":"u-1","text":"I'll pick it up","input_type":"text"}`), "application/json", register)
	if rec.Code != http.StatusOK || decode(t, rec)["service"] != "Pickup" || fs.in.UserID != "u-1" {
		t.Fatalf("select=%s", rec.Body.String())
	}
	rec = serve(t, http.MethodGet, "/services/user/u-1", nil, "", register)
	if sel, _ := decode(t, rec)["selections"].([]any); len(sel) != 1 {
		t.Fatalf("by user=%s", rec.Body.String())
	}
	rec = serve(t, http.MethodGet, "/services", nil, "", register)
	if list, _ := decode(t, rec)["services"].([]any); len(list) != 1 {
		t.Fatalf("services=%s", rec.Body.String())
	}
}

type fakeDelivery struct {
	enabled bool
	err     error
}

func (f *fakeDelivery) Enabled() bool { return f.enabled }

func (f *fakeDelivery) Create(_ context.Context, in services.CreateDeliveryInput) (*services.DeliveryResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &services.DeliveryResult{ExternalDeliveryID: "d-1", Partner: map[string]any{"status": "created"}}, nil
}

func TestDeliveryHandler(t *testing.T) {
	body := []byte(`{"pickup_address":"a","dropoff_address":"b"}`)
	cases := []struct {
		name   string
		svc    services.DeliveryService
		status int
		code   string
	}{
		{"disabled", &fakeDelivery{}, http.StatusServiceUnavailable, "delivery_disabled"},
		{"nil service", nil, http.StatusServiceUnavailable, "delivery_disabled"},
		{"partner failure", &fakeDelivery{enabled: true, err: errs.Transport("delivery.create", errors.New("400"))}, http.StatusBadGateway, "transport"},
		{"created", &fakeDelivery{enabled: true}, http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewDeliveryHandler(tc.svc)
			rec := serve(t, http.MethodPost, "/delivery", body, "application/json", func(r *gin.Engine) { r.POST("/delivery", h.Create) })
			if rec.Code != tc.status {
				t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
			}
			if tc.code != "" && errorCode(t, rec) != tc.code {
				t.Fatalf("code=%s", rec.Body.String())
			}
		})
	}
}

type fakeVoice struct {
	enabled bool
	in      services.VoiceTurnInput
}

func (f *fakeVoice) Enabled() bool { return f.enabled }

func (f *fakeVoice) SubmitAudio(_ context.Context, in services.VoiceTurnInput) (*services.VoiceTurnOutput, error) {
	f.in = in
	return &services.VoiceTurnOutput{
		TurnOutput:   wizard.TurnOutput{Outcome: steps.OutcomeSuggested, Message: "Here are some great vegetarian food suggestions"},
		Transcript:   "suggest something",
		LanguageCode: "en-US",
	}, nil
}

func multipartAudio(t *testing.T, fields map[string]string, audio []byte) ([]byte, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if audio != nil {
		part, err := w.CreateFormFile("audio", "answer.webm")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := part.Write(audio); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes(), w.FormDataContentType()
}

func TestVoiceHandler(t *testing.T) {
	fv := &fakeVoice{enabled: true}
	h := NewVoiceHandler(fv)
	register := func(r *gin.Engine) { r.POST("/audio", h.SubmitAudio) }

	body, ct := multipartAudio(t, map[string]string{"question_key": "dietary_preference", "session_id": "s-1"}, []byte{1, 2, 3})
	rec := serve(t, http.MethodPost, "/audio", body, ct, register)
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	if out["transcript"] != "suggest something" || out["resolution"] != "suggested" {
		t.Fatalf("response=%v", out)
	}
	if fv.in.QuestionKey != "dietary_preference" || fv.in.SessionID == nil || *fv.in.SessionID != "s-1" || fv.in.UserID != nil || len(fv.in.Audio) != 3 {
		t.Fatalf("voice input=%+v", fv.in)
	}

	body, ct = multipartAudio(t, map[string]string{"question_key": "q"}, nil)
	if rec := serve(t, http.MethodPost, "/audio", body, ct, register); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing audio status=%d", rec.Code)
	}

	off := NewVoiceHandler(&fakeVoice{})
	body, ct = multipartAudio(t, map[string]string{"question_key": "q"}, []byte{1})
	rec = serve(t, http.MethodPost, "/audio", body, ct, func(r *gin.Engine) { r.POST("/audio", off.SubmitAudio) })
	if rec.Code != http.StatusServiceUnavailable || errorCode(t, rec) != "speech_disabled" {
		t.Fatalf("disabled status=%d body=%s", rec.Code, rec.Body.String())
	}
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealthCheck(t *testing.T) {
	for _, tc := range []struct {
		db     Pinger
		status int
	}{
		{nil, http.StatusOK},
		{fakePinger{}, http.StatusOK},
		{fakePinger{err: errors.New("connection refused")}, http.StatusServiceUnavailable},
	} {
		h := NewHealthHandler(tc.db)
		rec := serve(t, http.MethodGet, "/healthcheck", nil, "", func(r *gin.Engine) { r.GET("/healthcheck", h.HealthCheck) })
		if rec.Code != tc.status {
			t.Fatalf("status=%d, want %d", rec.Code, tc.status)
		}
	}
}
