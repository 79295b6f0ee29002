package dispatcher

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/expertsai"
	"github.com/jobify/assistant/internal/registration"
	"github.com/jobify/assistant/internal/resume"
	"github.com/jobify/assistant/internal/storage"
)

const replyChunkSize = 2000

// Store is the persistence surface the dispatcher consumes directly.
type Store interface {
	UpsertProfile(ctx context.Context, userID string, update storage.ProfileUpdate) error
	GetProfile(ctx context.Context, userID string) (*storage.Profile, error)
	DeleteProfile(ctx context.Context, userID string) (bool, error)
	DeleteAssignments(ctx context.Context, userID string) error
	InsertFeedback(ctx context.Context, userID, text string) error
	RateFeedback(ctx context.Context, userID string, stars int) error
}

// Aggregator produces the deduplicated opportunity set for a user.
type Aggregator interface {
	Aggregate(ctx context.Context, userID, interestText string) []*expertsai.Opportunity
}

// Ingestor runs the resume ingestion pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, userID string, upload resume.Upload) resume.Outcome
}

// Asker answers free-form questions grounded on stored context.
type Asker interface {
	Ask(ctx context.Context, userID, question string) (string, error)
}

// Dispatcher routes inbound user events to the registration machine, the
// opportunity aggregator and the resume pipeline, and phrases their outcomes
// as outbound replies. Every failure reply comes paired with a way forward.
type Dispatcher struct {
	store      Store
	machine    *registration.Machine
	aggregator Aggregator
	ingestor   Ingestor
	asker      Asker
	logger     *zap.Logger
}

// New builds a dispatcher. asker may be nil when no language model is
// configured.
func New(store Store, machine *registration.Machine, aggregator Aggregator, ingestor Ingestor, asker Asker, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:      store,
		machine:    machine,
		aggregator: aggregator,
		ingestor:   ingestor,
		asker:      asker,
		logger:     logger,
	}
}

// HandleButton routes a button click by component id.
func (d *Dispatcher) HandleButton(ctx context.Context, userID, buttonID string) []Reply {
	if stars, ok := parseStars(buttonID); ok {
		if err := d.store.RateFeedback(ctx, userID, stars); err != nil {
			d.logger.Warn("saving rating failed", zap.String("user_id", userID), zap.Error(err))
		}
		return []Reply{text("Thanks! Your rating has been saved."), mainMenu()}
	}

	switch buttonID {
	case ButtonStart:
		return []Reply{mainMenu()}

	case ButtonCreateProfile:
		return []Reply{{
			Text: "Do you have a resume (CV)?",
			Buttons: []Button{
				{ButtonResumeYes, "Yes"},
				{ButtonResumeNo, "No"},
			},
		}}

	case ButtonResumeYes:
		return []Reply{text("Please upload your resume as a PDF.")}

	case ButtonResumeNo:
		if err := d.store.UpsertProfile(ctx, userID, storage.ProfileUpdate{}); err != nil {
			d.logger.Warn("initializing profile failed", zap.String("user_id", userID), zap.Error(err))
			return []Reply{text("Failed to initialize profile setup."), mainMenu()}
		}
		d.machine.Begin(userID)
		return []Reply{text("Please enter your email address.")}

	case ButtonViewProfile:
		return d.viewProfile(ctx, userID)

	case ButtonMatchJobs:
		return d.matchOpportunities(ctx, userID)

	case ButtonDeleteProfile:
		return d.deleteProfile(ctx, userID)

	case ButtonFeedback:
		return []Reply{{
			Text:  "Tell us what you think about the bot.",
			Modal: &Modal{ID: ModalFeedback, Label: "Your thoughts"},
		}}

	case ButtonAsk:
		if d.asker == nil {
			return []Reply{text("The AI assistant is not configured."), mainMenu()}
		}
		return []Reply{text("Ask me questions with `!ask <your question>`. " +
			"I use your saved profile and matched opportunities to guide you, " +
			"so complete your profile and run Match Me first."), mainMenu()}

	default:
		return []Reply{text("Unrecognized button.")}
	}
}

// HandleSelect routes a select-menu submission.
func (d *Dispatcher) HandleSelect(ctx context.Context, userID, menuID string, values []string) []Reply {
	switch menuID {
	case SelectSkills:
		d.machine.SaveSkills(ctx, userID, values)
		return []Reply{text("Skills saved."), positionsPrompt()}

	case SelectPositions:
		_, err := d.machine.SavePositions(ctx, userID, values)
		if err != nil {
			d.logger.Warn("saving positions failed", zap.String("user_id", userID), zap.Error(err))
			return []Reply{text("Error saving positions. Please try again.")}
		}
		return []Reply{
			text("Positions saved: " + strings.Join(values, ", ")),
			text("Your profile has been saved!"),
			mainMenu(),
		}

	default:
		return []Reply{text("Unknown select menu.")}
	}
}

// HandleModal routes a modal submission.
func (d *Dispatcher) HandleModal(ctx context.Context, userID, modalID, value string) []Reply {
	if modalID != ModalFeedback {
		return []Reply{text("Unknown form.")}
	}

	if err := d.store.InsertFeedback(ctx, userID, value); err != nil {
		d.logger.Warn("saving feedback failed", zap.String("user_id", userID), zap.Error(err))
		return []Reply{text("Could not save your feedback. Please try again."), mainMenu()}
	}
	return []Reply{text("Your feedback has been received!"), starsPrompt()}
}

// HandleMessage routes a free-text message: commands first, then any pending
// registration flow. Messages outside both produce no reply.
func (d *Dispatcher) HandleMessage(ctx context.Context, userID, content string) []Reply {
	content = strings.TrimSpace(content)

	switch {
	case strings.EqualFold(content, "!status"):
		return []Reply{text("Bot is operational.")}

	case strings.EqualFold(content, "!fetch"):
		return d.matchOpportunities(ctx, userID)

	case strings.HasPrefix(content, "!ask "):
		return d.ask(ctx, userID, strings.TrimSpace(content[len("!ask "):]))
	}

	switch d.machine.HandleInput(ctx, userID, content) {
	case registration.OutcomeInvalidEmail:
		return []Reply{text("Invalid email format, please retry.")}
	case registration.OutcomeEmailAccepted:
		return []Reply{text("Please enter your full name.")}
	case registration.OutcomeInvalidName:
		return []Reply{text("Please enter your full name.")}
	case registration.OutcomeNameAccepted:
		return []Reply{skillsPrompt()}
	default:
		return nil
	}
}

// HandleUpload routes a received document into the resume pipeline.
func (d *Dispatcher) HandleUpload(ctx context.Context, userID string, upload resume.Upload) []Reply {
	outcome := d.ingestor.Ingest(ctx, userID, upload)

	switch outcome.Status {
	case resume.StatusUploadFailed:
		return []Reply{text("Error uploading PDF. Please try again.")}
	case resume.StatusNoDocument:
		return []Reply{text("Attach a PDF file please.")}
	case resume.StatusNotPDF:
		return []Reply{text("Only PDF files are accepted.")}
	case resume.StatusExtractFailed:
		return []Reply{text("Error processing your CV."), mainMenu()}
	}

	var replies []Reply
	if outcome.Analysis != nil && outcome.Analysis.Review != nil {
		replies = append(replies, text(renderReview(outcome.Analysis.Review)))
	}
	replies = append(replies, text("PDF resume received and processed."), mainMenu())
	return replies
}

func (d *Dispatcher) viewProfile(ctx context.Context, userID string) []Reply {
	profile, err := d.store.GetProfile(ctx, userID)
	if err != nil {
		d.logger.Warn("loading profile failed", zap.String("user_id", userID), zap.Error(err))
		return []Reply{text("Error retrieving profile."), mainMenu()}
	}
	if profile == nil {
		return []Reply{text("You don't have a profile yet. Select 'Create Profile' to start."), mainMenu()}
	}

	var b strings.Builder
	b.WriteString("Your Profile\n")
	fields := []struct {
		label string
		value string
	}{
		{"Name", profile.Name},
		{"Email", profile.Email},
		{"Skills", profile.Skills},
		{"Career Interests", profile.Interests},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) != "" {
			fmt.Fprintf(&b, "%s: %s\n", field.label, field.value)
		}
	}

	return []Reply{text(b.String()), mainMenu()}
}

func (d *Dispatcher) matchOpportunities(ctx context.Context, userID string) []Reply {
	profile, err := d.store.GetProfile(ctx, userID)
	if err != nil {
		d.logger.Warn("loading profile failed", zap.String("user_id", userID), zap.Error(err))
		return []Reply{text("Error matching opportunities."), mainMenu()}
	}
	if profile == nil || profile.Skills == "" || profile.Interests == "" {
		return []Reply{text("You need to complete your profile first."), mainMenu()}
	}

	results := d.aggregator.Aggregate(ctx, userID, profile.Skills+" "+profile.Interests)
	if len(results) == 0 {
		return []Reply{text("No opportunities found for your profile."), mainMenu()}
	}

	replies := []Reply{text(fmt.Sprintf("Found %d opportunities for you:", len(results)))}
	for _, opp := range results {
		reply := text(opp.Describe())
		if opp.URL != "" {
			reply.Buttons = []Button{{ID: "apply_" + opp.ID, Label: "Apply: " + opp.URL}}
		}
		replies = append(replies, reply)
	}
	return append(replies, mainMenu())
}

func (d *Dispatcher) deleteProfile(ctx context.Context, userID string) []Reply {
	if err := d.store.DeleteAssignments(ctx, userID); err != nil {
		d.logger.Warn("deleting assignments failed", zap.String("user_id", userID), zap.Error(err))
		return []Reply{text("An error occurred while trying to delete your profile."), mainMenu()}
	}

	deleted, err := d.store.DeleteProfile(ctx, userID)
	if err != nil {
		d.logger.Warn("deleting profile failed", zap.String("user_id", userID), zap.Error(err))
		return []Reply{text("An error occurred while trying to delete your profile."), mainMenu()}
	}

	d.machine.Reset(userID)

	if !deleted {
		return []Reply{text("No profile was found to delete."), mainMenu()}
	}
	return []Reply{text("Your profile has been successfully deleted."), mainMenu()}
}

func (d *Dispatcher) ask(ctx context.Context, userID, question string) []Reply {
	if d.asker == nil {
		return []Reply{text("The AI assistant is not configured.")}
	}
	if question == "" {
		return []Reply{text("Usage: `!ask <your question>`")}
	}

	answer, err := d.asker.Ask(ctx, userID, question)
	if err != nil {
		d.logger.Warn("ask failed", zap.String("user_id", userID), zap.Error(err))
		return []Reply{text("The AI assistant is unavailable right now. Please try again later."), mainMenu()}
	}

	var replies []Reply
	for _, chunk := range chunked(answer, replyChunkSize) {
		replies = append(replies, text(chunk))
	}
	return replies
}

func renderReview(review *resume.Review) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CV Rating: %d/10\n", review.Rating)
	if len(review.Suggestions) > 0 {
		b.WriteString("Suggestions to improve your CV:\n")
		for _, tip := range review.Suggestions {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	return b.String()
}

func parseStars(buttonID string) (int, bool) {
	if !strings.HasPrefix(buttonID, starPrefix) {
		return 0, false
	}
	stars, err := strconv.Atoi(strings.TrimPrefix(buttonID, starPrefix))
	if err != nil || stars < 1 || stars > 5 {
		return 0, false
	}
	return stars, true
}

func chunked(s string, size int) []string {
	runes := []rune(s)
	var chunks []string
	for len(runes) > size {
		chunks = append(chunks, string(runes[:size]))
		runes = runes[size:]
	}
	return append(chunks, string(runes))
}
