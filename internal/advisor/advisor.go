package advisor

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/ai"
	"github.com/jobify/assistant/internal/expertsai"
	"github.com/jobify/assistant/internal/storage"
)

const persona = "You are an AI career assistant in a chat bot called Jobify. " +
	"You help students find the best job opportunities from the opportunities provided. " +
	"Always be helpful, friendly, and use natural, engaging language. " +
	"Focus on career guidance, internships, CVs, and job matching based on their profile."

// ProfileStore reads the stored profile used as conversation context.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*storage.Profile, error)
}

// AssignmentStore reads the opportunities assigned to a user.
type AssignmentStore interface {
	ListAssignments(ctx context.Context, userID string) ([]*expertsai.Opportunity, error)
}

// Advisor answers free-form career questions, grounding the model on the
// user's profile and assigned opportunities.
type Advisor struct {
	profiles    ProfileStore
	assignments AssignmentStore
	completer   ai.Completer
	logger      *zap.Logger
}

func New(profiles ProfileStore, assignments AssignmentStore, completer ai.Completer, logger *zap.Logger) *Advisor {
	return &Advisor{
		profiles:    profiles,
		assignments: assignments,
		completer:   completer,
		logger:      logger,
	}
}

// Ask sends the question with whatever context could be gathered. Store
// failures are logged and the ask proceeds without the missing context.
func (a *Advisor) Ask(ctx context.Context, userID, question string) (string, error) {
	var prompt strings.Builder

	if profileContext := a.profileContext(ctx, userID); profileContext != "" {
		prompt.WriteString("Here is my student profile:\n")
		prompt.WriteString(profileContext)
		prompt.WriteString("\n")
	}

	if assignmentContext := a.assignmentContext(ctx, userID); assignmentContext != "" {
		prompt.WriteString("These are the job opportunities assigned to me:\n")
		prompt.WriteString(assignmentContext)
		prompt.WriteString("\n")
	}

	prompt.WriteString("My question is: ")
	prompt.WriteString(question)

	return a.completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: persona},
		{Role: ai.RoleUser, Content: prompt.String()},
	})
}

func (a *Advisor) profileContext(ctx context.Context, userID string) string {
	profile, err := a.profiles.GetProfile(ctx, userID)
	if err != nil {
		a.logger.Warn("loading profile for ask failed", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	if profile == nil {
		return ""
	}

	var b strings.Builder
	fields := []struct {
		label string
		value string
	}{
		{"Name", profile.Name},
		{"Email", profile.Email},
		{"Skills", profile.Skills},
		{"Career Interest", profile.Interests},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) != "" {
			fmt.Fprintf(&b, "- %s: %s\n", field.label, field.value)
		}
	}
	return b.String()
}

func (a *Advisor) assignmentContext(ctx context.Context, userID string) string {
	assignments, err := a.assignments.ListAssignments(ctx, userID)
	if err != nil {
		a.logger.Warn("loading assignments for ask failed", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	if len(assignments) == 0 {
		return ""
	}

	var b strings.Builder
	for _, opp := range assignments {
		b.WriteString(opp.Describe())
		b.WriteString("\n")
	}
	return b.String()
}
