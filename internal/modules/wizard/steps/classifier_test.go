package steps

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/domain/errs"
)

type fakeGenerator struct {
	out    string
	err    error
	calls  int
	system string
	user   string
}

func (f *fakeGenerator) GenerateText(_ context.Context, system string, user string) (string, error) {
	f.calls++
	f.system, f.user = system, user
	return f.out, f.err
}

func TestClassifierFailsClosed(t *testing.T) {
	cases := []struct {
		raw  string
		kind ClassificationKind
		key  string
	}{
		{"veg_key", ClassAnswer, "veg_key"},
		{"  vegan_key\n", ClassAnswer, "vegan_key"},
		{"SUGGESTION_REQUEST", ClassSuggestion, ""},
		{"SORRY_DONT_UNDERSTAND", ClassSorry, ""},
		{"NONE", ClassSorry, ""},
		{"", ClassSorry, ""},
		{"VEG_KEY", ClassSorry, ""},
		{"\"veg_key\"", ClassSorry, ""},
		{"veg_key.", ClassSorry, ""},
		{"The answer is veg_key", ClassSorry, ""},
		{"chinese_key", ClassSorry, ""},
		{"suggestion_request", ClassSorry, ""},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			gen := &fakeGenerator{out: tc.raw}
			got, err := NewClassifier(gen, nil, nil).Classify(context.Background(), "something", "dietary_preference", dietCandidates)
			if err != nil {
				t.Fatalf("Classify: %v", err)
			}
			if got.Kind != tc.kind || got.AnswerKey != tc.key {
				t.Fatalf("Classify(%q)=%+v, want kind=%s key=%q", tc.raw, got, tc.kind, tc.key)
			}
		})
	}
}

func TestClassifierTransportFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("dial tcp: connection refused")}
	_, err := NewClassifier(gen, nil, nil).Classify(context.Background(), "veg please", "dietary_preference", dietCandidates)
	if !errs.IsCode(err, errs.CodeTransport) || !errors.Is(err, errs.ErrTransport) {
		t.Fatalf("err=%v, want transport", err)
	}

	var nilClassifier *Classifier
	if _, err := nilClassifier.Classify(context.Background(), "x", "q", dietCandidates); !errs.IsCode(err, errs.CodeTransport) {
		t.Fatalf("nil classifier err=%v, want transport", err)
	}
}

func TestClassifierSkipsModelWithoutCandidates(t *testing.T) {
	gen := &fakeGenerator{out: "veg_key"}
	got, err := NewClassifier(gen, nil, nil).Classify(context.Background(), "veg", "q", nil)
	if err != nil || got.Kind != ClassSorry {
		t.Fatalf("got %+v, %v", got, err)
	}
	if gen.calls != 0 {
		t.Fatalf("model called %d times", gen.calls)
	}
}

func TestClassifierPromptListsCandidates(t *testing.T) {
	gen := &fakeGenerator{out: "NONE"}
	_, _ = NewClassifier(gen, nil, nil).Classify(context.Background(), " I eat everything ", "dietary_preference", dietCandidates)
	for _, want := range []string{"- veg_key: Vegetarian", "- vegan_key: Vegan", "CUSTOMER_MESSAGE: I eat everything", "QUESTION_KEY: dietary_preference"} {
		if !strings.Contains(gen.user, want) {
			t.Fatalf("user prompt missing %q:\n%s", want, gen.user)
		}
	}
	if !strings.Contains(gen.system, "SUGGESTION_REQUEST") || !strings.Contains(gen.system, "NONE") {
		t.Fatalf("system prompt missing sentinels:\n%s", gen.system)
	}
}

func TestExtractDiet(t *testing.T) {
	cases := map[string]Diet{
		"suggest me something":             DietVeg,
		"any vegan options?":               DietVegan,
		"I'm non-veg, recommend something": DietNonVeg,
		"non veg food please":              DietNonVeg,
		"I am Non Vegetarian":              DietNonVeg,
		"pure veg only":                    DietVeg,
		"VEGETARIAN dishes":                DietVeg,
	}
	for in, want := range cases {
		if got := ExtractDiet(in); got != want {
			t.Fatalf("ExtractDiet(%q)=%s, want %s", in, got, want)
		}
	}
	if DietNonVeg.DietaryType() != "non-vegetarian" || DietVeg.DietaryType() != "vegetarian" || DietVegan.DietaryType() != "vegan" {
		t.Fatalf("dietary type mapping changed")
	}
}
