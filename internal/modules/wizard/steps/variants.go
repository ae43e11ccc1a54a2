package steps

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var defaultVariantsYAML []byte

// Variants maps a fragment of answer text to extra phrasings the matcher
// should accept for it. A loaded table is never mutated.
type Variants struct {
	keys   []string
	values map[string][]string
}

type variantsFile struct {
	Variants map[string][]string `yaml:"variants"`
}

// DefaultVariants returns the embedded table.
func DefaultVariants() Variants {
	v, err := ParseVariants(defaultVariantsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded variants.yaml: %v", err))
	}
	return v
}

// LoadVariants reads a YAML table from path, or the embedded default when
// path is empty.
func LoadVariants(path string) (Variants, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultVariants(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Variants{}, fmt.Errorf("read variants %q: %w", path, err)
	}
	v, err := ParseVariants(raw)
	if err != nil {
		return Variants{}, fmt.Errorf("parse variants %q: %w", path, err)
	}
	return v, nil
}

func ParseVariants(raw []byte) (Variants, error) {
	var f variantsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Variants{}, err
	}
	out := Variants{values: make(map[string][]string, len(f.Variants))}
	for k, vals := range f.Variants {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		for _, v := range vals {
			if s := strings.ToLower(strings.TrimSpace(v)); s != "" {
				out.values[key] = append(out.values[key], s)
			}
		}
		if _, ok := out.values[key]; ok {
			out.keys = append(out.keys, key)
		}
	}
	sort.Strings(out.keys)
	return out, nil
}

func (v Variants) Len() int { return len(v.keys) }

// For returns the phrasings registered for every key contained in
// answerText. A key that only matches as part of a longer matching key is
// skipped, so "Non-Vegetarian" does not pick up the "vegetarian" phrasings.
func (v Variants) For(answerText string) []string {
	lower := strings.ToLower(strings.TrimSpace(answerText))
	if lower == "" {
		return nil
	}
	var hits []string
	for _, k := range v.keys {
		if strings.Contains(lower, k) {
			hits = append(hits, k)
		}
	}
	var out []string
	for _, k := range hits {
		if shadowed(k, hits) {
			continue
		}
		out = append(out, v.values[k]...)
	}
	return out
}

func shadowed(key string, hits []string) bool {
	for _, other := range hits {
		if len(other) > len(key) && strings.Contains(other, key) {
			return true
		}
	}
	return false
}
