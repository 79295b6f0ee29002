package resume

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/ai"
	"github.com/jobify/assistant/internal/utils"
)

//go:embed extract_prompt.md
var extractPrompt string

//go:embed review_prompt.md
var reviewPrompt string

const promptLogLimit = 200

// Fields are the profile fields the model found in a CV. Empty strings and
// nil slices mean the model did not report the field.
type Fields struct {
	Name      string
	Email     string
	Skills    []string
	Positions []string
}

// Review is the model's quality assessment of a CV.
type Review struct {
	Rating      int
	Suggestions []string
}

// Analyzer drives the two resume analysis calls against a language model.
type Analyzer struct {
	completer ai.Completer
	logger    *zap.Logger
}

func NewAnalyzer(completer ai.Completer, logger *zap.Logger) *Analyzer {
	return &Analyzer{completer: completer, logger: logger}
}

// ExtractFields asks the model for structured profile fields found in the CV.
func (a *Analyzer) ExtractFields(ctx context.Context, cvText string) (*Fields, error) {
	raw, err := a.complete(ctx, extractPrompt, cvText)
	if err != nil {
		return nil, err
	}

	data, err := ai.ParseObject(raw)
	if err != nil {
		return nil, err
	}

	return &Fields{
		Name:      ai.CoerceString(data["name"]),
		Email:     ai.CoerceString(data["email"]),
		Skills:    ai.CoerceStringList(data["skills"]),
		Positions: ai.CoerceStringList(data["positions"]),
	}, nil
}

// Review asks the model to rate the CV and suggest improvements.
func (a *Analyzer) Review(ctx context.Context, cvText string) (*Review, error) {
	raw, err := a.complete(ctx, reviewPrompt, cvText)
	if err != nil {
		return nil, err
	}

	data, err := ai.ParseObject(raw)
	if err != nil {
		return nil, err
	}

	rating, ok := ai.CoerceInt(data["rating"])
	if !ok {
		return nil, errors.New("review reply is missing a rating")
	}

	return &Review{
		Rating:      rating,
		Suggestions: ai.CoerceStringList(data["feedback"]),
	}, nil
}

func (a *Analyzer) complete(ctx context.Context, template, cvText string) (string, error) {
	prompt := strings.ReplaceAll(template, "{{CV_TEXT}}", cvText)

	a.logger.Debug("model request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, promptLogLimit)),
	)

	raw, err := a.completer.Complete(ctx, []ai.Message{
		{Role: ai.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", err
	}

	a.logger.Debug("model response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, promptLogLimit)),
	)

	return raw, nil
}
