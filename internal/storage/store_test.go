package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/jobify/assistant/internal/expertsai"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestUpsertProfileMergesFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertProfile(ctx, "u1", ProfileUpdate{Name: String("A")}); err != nil {
		t.Fatalf("upsert name: %v", err)
	}
	if err := store.UpsertProfile(ctx, "u1", ProfileUpdate{Email: String("x@y.com")}); err != nil {
		t.Fatalf("upsert email: %v", err)
	}

	profile, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile == nil {
		t.Fatalf("expected profile to exist")
	}
	if profile.Name != "A" {
		t.Fatalf("name was not preserved, got %q", profile.Name)
	}
	if profile.Email != "x@y.com" {
		t.Fatalf("email was not merged, got %q", profile.Email)
	}
}

func TestUpsertProfileBlankDoesNotOverwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertProfile(ctx, "u1", ProfileUpdate{Name: String("A")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	// String maps blank input to nil, so the stored name must survive.
	if err := store.UpsertProfile(ctx, "u1", ProfileUpdate{Name: String("  ")}); err != nil {
		t.Fatalf("upsert blank: %v", err)
	}

	profile, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.Name != "A" {
		t.Fatalf("blank update overwrote name: %q", profile.Name)
	}
}

func TestGetProfileAbsent(t *testing.T) {
	store := newTestStore(t)

	profile, err := store.GetProfile(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile != nil {
		t.Fatalf("expected nil profile, got %+v", profile)
	}
}

func TestSetResumeTextKeepsOtherFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertProfile(ctx, "u1", ProfileUpdate{Name: String("A")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.SetResumeText(ctx, "u1", "resume body"); err != nil {
		t.Fatalf("set resume text: %v", err)
	}

	profile, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.ResumeText != "resume body" {
		t.Fatalf("unexpected resume text: %q", profile.ResumeText)
	}
	if profile.Name != "A" {
		t.Fatalf("resume update clobbered name: %q", profile.Name)
	}
}

func TestAssignmentExistenceAndInsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	opp := &expertsai.Opportunity{ID: "42", Title: "Backend Intern", Company: "Acme"}

	exists, err := store.AssignmentExists(ctx, "u1", "42")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("expected no assignment before insert")
	}

	if err := store.InsertAssignment(ctx, "u1", opp); err != nil {
		t.Fatalf("insert: %v", err)
	}

	exists, err = store.AssignmentExists(ctx, "u1", "42")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatalf("expected assignment after insert")
	}

	listed, err := store.ListAssignments(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 assignment, got %d", len(listed))
	}
	if listed[0].Title != "Backend Intern" {
		t.Fatalf("unexpected title: %q", listed[0].Title)
	}
}

func TestDeleteProfileAndAssignments(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertProfile(ctx, "u1", ProfileUpdate{Name: String("A")}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := store.InsertAssignment(ctx, "u1", &expertsai.Opportunity{ID: "7"}); err != nil {
		t.Fatalf("insert assignment: %v", err)
	}

	if err := store.DeleteAssignments(ctx, "u1"); err != nil {
		t.Fatalf("delete assignments: %v", err)
	}
	deleted, err := store.DeleteProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("delete profile: %v", err)
	}
	if !deleted {
		t.Fatalf("expected profile to be deleted")
	}

	profile, err := store.GetProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile != nil {
		t.Fatalf("expected absent profile after delete")
	}

	listed, err := store.ListAssignments(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected no assignments after delete, got %d", len(listed))
	}

	deleted, err = store.DeleteProfile(ctx, "u1")
	if err != nil {
		t.Fatalf("delete profile twice: %v", err)
	}
	if deleted {
		t.Fatalf("second delete should report no row")
	}
}

func TestRateFeedbackTargetsLatestUnrated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.InsertFeedback(ctx, "u1", "first"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.RateFeedback(ctx, "u1", 3); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if err := store.InsertFeedback(ctx, "u1", "second"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.RateFeedback(ctx, "u1", 5); err != nil {
		t.Fatalf("rate: %v", err)
	}

	rows, err := store.DB.QueryContext(ctx, `SELECT feedback_text, stars FROM feedback WHERE user_id = ? ORDER BY id`, "u1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	var got []struct {
		text  string
		stars int
	}
	for rows.Next() {
		var entry struct {
			text  string
			stars int
		}
		if err := rows.Scan(&entry.text, &entry.stars); err != nil {
			t.Fatalf("scan: %v", err)
		}
		got = append(got, entry)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].stars != 3 || got[1].stars != 5 {
		t.Fatalf("unexpected ratings: %+v", got)
	}
}

func TestDocumentsSaveOverwrites(t *testing.T) {
	docs := NewDocuments(filepath.Join(t.TempDir(), "resumes"))

	path, err := docs.Save("u1", []byte("first"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := docs.Save("u1", []byte("second")); err != nil {
		t.Fatalf("save again: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "second" {
		t.Fatalf("expected overwrite, got %q", data)
	}
}
