package services

import (
	"context"
	"errors"
	"testing"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/data/repos/testutil"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/conversation"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/modules/wizard"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/doordash"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/geocoding"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type fakeDoorDash struct {
	req doordash.DeliveryRequest
	err error
}

func (f *fakeDoorDash) CreateDelivery(_ context.Context, req doordash.DeliveryRequest) (*doordash.Delivery, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	return &doordash.Delivery{ExternalDeliveryID: "d-123", Raw: map[string]any{"delivery_status": "created"}}, nil
}

type fakeGeocoder struct {
	point *geocoding.Point
	err   error
	query string
}

func (f *fakeGeocoder) Geocode(_ context.Context, q string) (*geocoding.Point, error) {
	f.query = q
	return f.point, f.err
}

func validDelivery() CreateDeliveryInput {
	return CreateDeliveryInput{
		OrderID:            "42",
		PickupAddress:      "901 Market St, San Francisco, CA",
		PickupBusinessName: "Bitewise Kitchen",
		PickupPhone:        "+14155550100",
		DropoffAddress:     "1 Dr Carlton B Goodlett Pl, San Francisco, CA",
		DropoffName:        "Ada Lovelace",
		DropoffPhone:       "+14155550199",
	}
}

func TestDeliveryCreate(t *testing.T) {
	dd := &fakeDoorDash{}
	geo := &fakeGeocoder{point: &geocoding.Point{Lat: 37.77, Lon: -122.41}}
	svc := NewDeliveryService(logger.Nop(), dd, geo)

	out, err := svc.Create(context.Background(), validDelivery())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.ExternalDeliveryID != "d-123" || out.Dropoff == nil || out.Partner["delivery_status"] != "created" {
		t.Fatalf("result=%+v", out)
	}
	if dd.req.PickupReferenceTag != "Order #42" || dd.req.DropoffName != "Ada Lovelace" {
		t.Fatalf("request=%+v", dd.req)
	}
	if geo.query != validDelivery().DropoffAddress {
		t.Fatalf("geocoded %q", geo.query)
	}
}

func TestDeliveryGeocodeFailureIsNotFatal(t *testing.T) {
	for _, geo := range []*fakeGeocoder{{err: errors.New("429")}, {}} {
		out, err := NewDeliveryService(logger.Nop(), &fakeDoorDash{}, geo).Create(context.Background(), validDelivery())
		if err != nil || out.Dropoff != nil {
			t.Fatalf("Create=%+v, %v", out, err)
		}
	}
}

func TestDeliveryErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewDeliveryService(logger.Nop(), nil, nil).Create(ctx, validDelivery()); !errs.IsCode(err, errs.CodeUnavailable) {
		t.Fatalf("disabled err=%v", err)
	}
	in := validDelivery()
	in.DropoffPhone = " "
	if _, err := NewDeliveryService(logger.Nop(), &fakeDoorDash{}, nil).Create(ctx, in); !errs.IsCode(err, errs.CodeValidation) {
		t.Fatalf("missing field err=%v", err)
	}
	partner := &fakeDoorDash{err: errors.New("doordash: status 400")}
	_, err := NewDeliveryService(logger.Nop(), partner, nil).Create(ctx, validDelivery())
	if !errs.IsCode(err, errs.CodeTransport) || !errors.Is(err, errs.ErrTransport) {
		t.Fatalf("partner err=%v", err)
	}
}

type fakeTranscriber struct {
	text     string
	err      error
	language string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string, languageCode string) (string, error) {
	f.language = languageCode
	return f.text, f.err
}

func (f *fakeTranscriber) Close() error { return nil }

type fakeTurns struct {
	in wizard.TurnInput
}

func (f *fakeTurns) SubmitTurn(_ context.Context, in wizard.TurnInput) (wizard.TurnOutput, error) {
	f.in = in
	key := "veg_key"
	return wizard.TurnOutput{Matched: true, ResolvedAnswerKey: &key}, nil
}

func TestVoiceSubmitAudioUsesSessionLanguage(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	testutil.SeedSession(t, ctx, db, "s-es", "es")
	tr := &fakeTranscriber{text: "vegetariano"}
	turns := &fakeTurns{}
	svc := NewVoiceService(testutil.Logger(t), tr, repos.NewSessionRepo(db, testutil.Logger(t)), turns)

	sid := "s-es"
	out, err := svc.SubmitAudio(ctx, VoiceTurnInput{SessionID: &sid, QuestionKey: "dietary_preference", Audio: []byte{1, 2}, MimeType: "audio/webm"})
	if err != nil {
		t.Fatalf("SubmitAudio: %v", err)
	}
	if tr.language != "es-ES" || out.LanguageCode != "es-ES" {
		t.Fatalf("language code=%q", tr.language)
	}
	if out.Transcript != "vegetariano" || !out.Matched {
		t.Fatalf("out=%+v", out)
	}
	if turns.in.Channel != conversation.ChannelVoice || turns.in.Text != "vegetariano" || turns.in.AnswerKey != nil {
		t.Fatalf("turn input=%+v", turns.in)
	}
}

func TestVoiceSubmitAudioErrors(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	sessions := repos.NewSessionRepo(db, testutil.Logger(t))

	disabled := NewVoiceService(logger.Nop(), nil, sessions, &fakeTurns{})
	if disabled.Enabled() {
		t.Fatalf("voice enabled without transcriber")
	}
	if _, err := disabled.SubmitAudio(ctx, VoiceTurnInput{QuestionKey: "q", Audio: []byte{1}}); !errs.IsCode(err, errs.CodeUnavailable) {
		t.Fatalf("disabled err=%v", err)
	}

	cases := []struct {
		name string
		tr   *fakeTranscriber
		in   VoiceTurnInput
		code errs.Code
	}{
		{"no question", &fakeTranscriber{}, VoiceTurnInput{Audio: []byte{1}}, errs.CodeValidation},
		{"no audio", &fakeTranscriber{}, VoiceTurnInput{QuestionKey: "q"}, errs.CodeValidation},
		{"too large", &fakeTranscriber{}, VoiceTurnInput{QuestionKey: "q", Audio: make([]byte, MaxVoiceAudioBytes+1)}, errs.CodeValidation},
		{"speech failure", &fakeTranscriber{err: errors.New("unavailable")}, VoiceTurnInput{QuestionKey: "q", Audio: []byte{1}}, errs.CodeTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewVoiceService(logger.Nop(), tc.tr, sessions, &fakeTurns{}).SubmitAudio(ctx, tc.in)
			if !errs.IsCode(err, tc.code) {
				t.Fatalf("err=%v, want %s", err, tc.code)
			}
		})
	}
}
