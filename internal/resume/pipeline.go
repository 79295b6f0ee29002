package resume

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/jobify/assistant/internal/storage"
)

// Status tags the terminal stage of an ingestion run.
type Status int

const (
	// StatusUploadFailed means the document transfer itself failed.
	StatusUploadFailed Status = iota
	// StatusNoDocument means the message carried no attachment.
	StatusNoDocument
	// StatusNotPDF means the attachment had an unsupported extension.
	StatusNotPDF
	// StatusExtractFailed means the staged document could not be read.
	StatusExtractFailed
	// StatusProcessed means the pipeline ran to completion; analysis stages
	// may still have been skipped individually.
	StatusProcessed
)

// Upload is a received document, or the transport error that replaced it.
type Upload struct {
	Filename string
	Data     []byte
	Err      error
}

// Analysis is the model-derived view of an uploaded resume. It is rendered to
// the user and discarded, never stored.
type Analysis struct {
	Fields *Fields
	Review *Review
}

// Outcome describes one ingestion run.
type Outcome struct {
	Status         Status
	ProfileUpdated bool
	Analysis       *Analysis
}

// ProfileStore is the persistence surface the pipeline writes through.
type ProfileStore interface {
	UpsertProfile(ctx context.Context, userID string, update storage.ProfileUpdate) error
	SetResumeText(ctx context.Context, userID, text string) error
}

// DocumentStore stages raw uploads keyed by user.
type DocumentStore interface {
	Save(userID string, data []byte) (string, error)
}

// Pipeline turns an uploaded resume into profile updates and user-facing
// feedback. Each stage has its own fallback; no stage failure leaves the user
// without a next action.
type Pipeline struct {
	documents DocumentStore
	profiles  ProfileStore
	analyzer  *Analyzer
	logger    *zap.Logger

	// extract converts a staged document to plain text. Overridable in tests.
	extract func(path string) (string, error)
}

// NewPipeline builds a pipeline. analyzer may be nil when no language model
// is configured; the analysis stages are then skipped entirely.
func NewPipeline(documents DocumentStore, profiles ProfileStore, analyzer *Analyzer, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		documents: documents,
		profiles:  profiles,
		analyzer:  analyzer,
		logger:    logger,
		extract:   ExtractText,
	}
}

// Ingest runs the staged pipeline for one upload.
func (p *Pipeline) Ingest(ctx context.Context, userID string, upload Upload) Outcome {
	// Stage 1: validate and stage the document.
	if upload.Err != nil {
		p.logger.Warn("resume upload failed", zap.String("user_id", userID), zap.Error(upload.Err))
		return Outcome{Status: StatusUploadFailed}
	}
	if len(upload.Data) == 0 {
		return Outcome{Status: StatusNoDocument}
	}
	if !strings.HasSuffix(strings.ToLower(upload.Filename), ".pdf") {
		return Outcome{Status: StatusNotPDF}
	}

	path, err := p.documents.Save(userID, upload.Data)
	if err != nil {
		p.logger.Warn("staging resume failed", zap.String("user_id", userID), zap.Error(err))
		return Outcome{Status: StatusUploadFailed}
	}

	// Stage 2: extract text. Failure here aborts the run.
	text, err := p.extract(path)
	if err != nil {
		p.logger.Warn("resume extraction failed", zap.String("user_id", userID), zap.Error(err))
		return Outcome{Status: StatusExtractFailed}
	}

	// Stage 3: persist the raw text before anything model-related can fail.
	if strings.TrimSpace(text) == "" {
		p.logger.Info("skipping resume text update: extracted text is blank", zap.String("user_id", userID))
	} else if err := p.profiles.SetResumeText(ctx, userID, text); err != nil {
		p.logger.Warn("saving resume text failed", zap.String("user_id", userID), zap.Error(err))
	}

	outcome := Outcome{Status: StatusProcessed}

	if p.analyzer == nil {
		return outcome
	}

	outcome.Analysis = &Analysis{}

	// Stage 4: field extraction. A failed call or malformed reply skips the
	// merge but not the rest of the pipeline.
	fields, err := p.analyzer.ExtractFields(ctx, text)
	if err != nil {
		p.logger.Warn("resume field extraction failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		outcome.Analysis.Fields = fields
		outcome.ProfileUpdated = p.mergeFields(ctx, userID, fields)
	}

	// Stage 5: quality review. Rendered to the user, never persisted.
	review, err := p.analyzer.Review(ctx, text)
	if err != nil {
		p.logger.Warn("resume review failed", zap.String("user_id", userID), zap.Error(err))
	} else {
		outcome.Analysis.Review = review
	}

	return outcome
}

// mergeFields applies the extracted fields to the profile, merge-on-write.
// It reports whether a write was attempted and succeeded.
func (p *Pipeline) mergeFields(ctx context.Context, userID string, fields *Fields) bool {
	update := storage.ProfileUpdate{
		Name:      storage.String(fields.Name),
		Email:     storage.String(fields.Email),
		Skills:    storage.String(strings.Join(fields.Skills, ", ")),
		Interests: storage.String(strings.Join(fields.Positions, ", ")),
	}

	if update.Name == nil && update.Email == nil && update.Skills == nil && update.Interests == nil {
		return false
	}

	if err := p.profiles.UpsertProfile(ctx, userID, update); err != nil {
		p.logger.Warn("merging extracted fields failed", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	p.logger.Info("profile updated from resume", zap.String("user_id", userID))
	return true
}
