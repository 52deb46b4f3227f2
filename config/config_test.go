package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Host != "0.0.0.0" || c.Port != "8080" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.InactivityTimeout != 300*time.Second {
		t.Fatalf("expected 300s inactivity timeout, got %v", c.InactivityTimeout)
	}
	if c.Environment != Dev {
		t.Fatalf("expected dev environment, got %q", c.Environment)
	}
	if c.AllowCORS {
		t.Fatal("expected CORS disabled by default")
	}
	if c.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr %q", c.Addr())
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9000")
	t.Setenv("INACTIVITY_TIMEOUT_SECONDS", "10")
	t.Setenv("WORDS_FILE", "/tmp/words.txt")
	t.Setenv("ALLOW_CORS", "true")
	t.Setenv("ENVIRONMENT", "prod")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Host != "127.0.0.1" || c.Port != "9000" {
		t.Fatalf("unexpected host/port: %+v", c)
	}
	if c.InactivityTimeout != 10*time.Second {
		t.Fatalf("expected 10s, got %v", c.InactivityTimeout)
	}
	if c.WordsFile != "/tmp/words.txt" {
		t.Fatalf("unexpected words file %q", c.WordsFile)
	}
	if !c.AllowCORS || c.Environment != Prod {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestLoadRejectsInvalidEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "staging")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an invalid environment")
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("INACTIVITY_TIMEOUT_SECONDS", "zero")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric timeout")
	}
}
