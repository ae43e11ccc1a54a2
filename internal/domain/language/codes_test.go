package language

import "testing"

func TestCodeForName(t *testing.T) {
	cases := map[string]string{
		"English":  "en",
		" hindi ":  "hi",
		"Filipino": "fil",
		"Klingon":  "en",
		"":         "en",
	}
	for in, want := range cases {
		if got := CodeForName(in); got != want {
			t.Fatalf("CodeForName(%q)=%q, want %q", in, got, want)
		}
	}
}
