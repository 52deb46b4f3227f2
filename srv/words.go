package srv

import (
	"fmt"
	"os"
	"strings"
)

// LoadWords reads the newline-delimited prompts file. Entries are trimmed
// and lowercased; empty lines are dropped. An empty result is an error
// because every game needs a non-empty pool.
func LoadWords(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read words file: %w", err)
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.ToLower(strings.TrimSpace(line))
		if line != "" {
			words = append(words, line)
		}
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("words file %s contains no words", path)
	}
	return words, nil
}
