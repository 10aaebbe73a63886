package generate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadLexicon reads a lexicon overlay file and applies it on top of the
// defaults. Empty fields keep their default vocabulary.
func LoadLexicon(path string) (Lexicon, error) {
	lex := DefaultLexicon()

	data, err := os.ReadFile(path)
	if err != nil {
		return lex, fmt.Errorf("reading lexicon: %w", err)
	}

	var f Lexicon
	if err := yaml.Unmarshal(data, &f); err != nil {
		return lex, fmt.Errorf("parsing lexicon %s: %w", path, err)
	}

	if len(f.Sectors) > 0 {
		lex.Sectors = f.Sectors
	}
	if len(f.Services) > 0 {
		lex.Services = f.Services
	}
	if len(f.Structures) > 0 {
		lex.Structures = f.Structures
	}
	if len(f.Prefixes) > 0 {
		lex.Prefixes = f.Prefixes
	}
	if f.Suffix != "" {
		lex.Suffix = f.Suffix
	}

	return lex, nil
}
