package services

import (
	"context"
	"strings"
)

// TextGenerator is the slice of the LLM client the detectors need.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// parseNameList splits a comma-separated model reply, dropping blanks and
// "none". Surrounding quotes and a trailing period are stripped per entry.
func parseNameList(raw string) []string {
	var out []string
	for _, part := range strings.Split(strings.TrimSpace(raw), ",") {
		name := strings.Trim(strings.TrimSpace(part), "\"'`.")
		if name == "" || strings.EqualFold(name, "none") {
			continue
		}
		out = append(out, name)
	}
	return out
}

func userTextBlock(text string) string {
	return "USER_TEXT:\n" + strings.TrimSpace(text)
}
