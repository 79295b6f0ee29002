package ai

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a model conversation.
type Message struct {
	Role    string
	Content string
}

// Completer sends an ordered conversation to a language model and returns the
// reply text. Implementations give no structured-output guarantee; callers
// parse the text themselves.
type Completer interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
