package secrets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-key")
	if err := os.WriteFile(path, []byte("  key-123 \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	got, err := Load(Source{Name: "gemini api key", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "key-123" {
		t.Fatalf("expected trimmed value, got %q", got)
	}
}

func TestLoadFilePrecedesValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api-key")
	if err := os.WriteFile(path, []byte("from-file"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	got, err := Load(Source{Name: "token", Value: "inline", File: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "from-file" {
		t.Fatalf("expected file to win, got %q", got)
	}
}

func TestLoadErrorsNameTheSecret(t *testing.T) {
	if _, err := Load(Source{Name: "gemini api key"}); err == nil {
		t.Fatalf("expected error for unset source")
	} else if !strings.Contains(err.Error(), "gemini api key") {
		t.Fatalf("error should name the secret: %v", err)
	}

	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}
	if _, err := Load(Source{Name: "token", File: path}); err == nil {
		t.Fatalf("expected error for empty file")
	}

	if _, err := Load(Source{File: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Fatalf("expected error for unreadable file")
	}
}
