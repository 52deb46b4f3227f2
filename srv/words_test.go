package srv

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("  Cat \n\nDOG\n \nbird\n"), 0o644); err != nil {
		t.Fatalf("failed to write words file: %v", err)
	}

	words, err := LoadWords(path)
	if err != nil {
		t.Fatalf("LoadWords failed: %v", err)
	}
	want := []string{"cat", "dog", "bird"}
	if len(words) != len(want) {
		t.Fatalf("expected %v, got %v", want, words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, words)
		}
	}
}

func TestLoadWordsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte(" \n\n  \n"), 0o644); err != nil {
		t.Fatalf("failed to write words file: %v", err)
	}
	if _, err := LoadWords(path); err == nil {
		t.Fatal("expected an error for a words file with no words")
	}
}

func TestLoadWordsMissingFile(t *testing.T) {
	if _, err := LoadWords(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected an error for a missing words file")
	}
}
