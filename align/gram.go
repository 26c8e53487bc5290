package align

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// GramDict maps grammatical markers like "1sg" to the translation words that
// may realize them. Keys and words are lowercase.
type GramDict map[string][]string

// DefaultGramDict returns a fresh copy of the built-in dictionary.
func DefaultGramDict() GramDict {
	return GramDict{
		"1sg":  {"i", "me"},
		"1pl":  {"we", "us", "our"},
		"det":  {"the", "this"},
		"art":  {"the"},
		"3pl":  {"they"},
		"3sg":  {"he", "she", "him", "her"},
		"3sgf": {"she", "her"},
		"3fsg": {"she", "her"},
		"2sg":  {"you"},
		"3sgp": {"he"},
		"poss": {"his", "her", "my", "their"},
		"neg":  {"n't", "not"},
		"2pl":  {"you"},
	}
}

// Matches reports whether word is listed under marker.
func (d GramDict) Matches(marker, word string) bool {
	return slices.Contains(d[strings.ToLower(marker)], strings.ToLower(word))
}

// LoadGramDict reads a YAML mapping of marker to word list. Entries override
// the built-in ones with the same marker.
func LoadGramDict(path string) (GramDict, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("gram dictionary %s: %w", path, err)
	}

	dict := DefaultGramDict()
	for k, words := range raw {
		lower := make([]string, len(words))
		for i, w := range words {
			lower[i] = strings.ToLower(w)
		}
		dict[strings.ToLower(k)] = lower
	}
	return dict, nil
}
