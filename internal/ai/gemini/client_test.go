package gemini

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/genai"

	"github.com/jobify/assistant/internal/ai"
)

type fakeGenerator struct {
	resp *genai.GenerateContentResponse
	err  error

	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.gotModel = model
	f.gotContents = contents
	f.gotConfig = config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []*genai.Part{{Text: text}},
			},
		}},
	}
}

func TestCompleteMapsConversation(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("hello there")}
	client := &Client{models: fake, modelName: "test-model"}

	reply, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleSystem, Content: "You are a career assistant."},
		{Role: ai.RoleUser, Content: "Recommend a job."},
		{Role: ai.RoleAssistant, Content: "Sure."},
		{Role: ai.RoleUser, Content: "Go on."},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "hello there" {
		t.Fatalf("unexpected reply: %q", reply)
	}

	if fake.gotModel != "test-model" {
		t.Fatalf("unexpected model: %q", fake.gotModel)
	}
	if fake.gotConfig == nil || fake.gotConfig.SystemInstruction == nil {
		t.Fatalf("expected system instruction to be set")
	}
	if len(fake.gotContents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(fake.gotContents))
	}
	if fake.gotContents[0].Role != genai.RoleUser {
		t.Fatalf("unexpected first role: %q", fake.gotContents[0].Role)
	}
	if fake.gotContents[1].Role != genai.RoleModel {
		t.Fatalf("unexpected second role: %q", fake.gotContents[1].Role)
	}
}

func TestCompleteRequiresUserMessage(t *testing.T) {
	client := &Client{models: &fakeGenerator{}, modelName: "test-model"}

	_, err := client.Complete(context.Background(), []ai.Message{
		{Role: ai.RoleSystem, Content: "system only"},
	})
	if err == nil {
		t.Fatalf("expected error for conversation without user messages")
	}
}

func TestCompleteEmptyResponse(t *testing.T) {
	fake := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	client := &Client{models: fake, modelName: "test-model"}

	_, err := client.Complete(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatalf("expected error for empty response")
	}
}

func TestCompleteTransportError(t *testing.T) {
	fake := &fakeGenerator{err: errors.New("quota exceeded")}
	client := &Client{models: fake, modelName: "test-model"}

	_, err := client.Complete(context.Background(), []ai.Message{{Role: ai.RoleUser, Content: "hi"}})
	if err == nil {
		t.Fatalf("expected transport error to surface")
	}
}
