package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/dispatcher"
	"github.com/jobify/assistant/internal/registration"
	"github.com/jobify/assistant/internal/storage"
)

func TestSessionWiring(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "wiring.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	logger := zap.NewNop()
	machine := registration.NewMachine(store, logger)
	d := dispatcher.New(store, machine, nil, nil, nil, logger)

	s := &session{dispatcher: d, userID: "local"}
	if s.dispatcher == nil || s.userID != "local" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestNewCompleterDisabled(t *testing.T) {
	if _, err := newCompleter(context.Background(), nil); err == nil {
		t.Fatalf("expected error for missing ai config")
	}

	if _, err := newCompleter(context.Background(), &AIConfig{Enabled: false}); err == nil {
		t.Fatalf("expected error for disabled ai config")
	}

	if _, err := newCompleter(context.Background(), &AIConfig{Enabled: true}); err == nil {
		t.Fatalf("expected error for missing gemini config")
	}
}

func TestNewCompleterReadsKeyFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "key")
	if err := os.WriteFile(keyFile, []byte("  test-key \n"), 0o600); err != nil {
		t.Fatalf("writing key file: %v", err)
	}

	completer, err := newCompleter(context.Background(), &AIConfig{
		Enabled: true,
		Gemini:  &GeminiConfig{APIKeyFile: keyFile},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completer == nil {
		t.Fatalf("expected a completer")
	}
}
