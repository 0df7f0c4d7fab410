// Package pipeline orchestrates the full scoring flow: raw input is handed to
// an external collaborator (LLM extraction, OCR, link resolver), the resulting
// record is scored, and the scored job is appended to the log.
package pipeline

import (
	"context"

	"jobsift/internal/ai"
	"jobsift/internal/errors"
	"jobsift/internal/score"
	"jobsift/internal/scrape"
	"jobsift/internal/types"
)

// Pipeline statuses
const (
	StatusScored        = "scored"
	StatusCouldNotParse = "could not parse job posting"
)

// TextExtractor produces text from an image file
type TextExtractor interface {
	ImageToText(ctx context.Context, path string) (string, error)
}

// LinkResolver produces posting text from a job board URL
type LinkResolver interface {
	Resolve(ctx context.Context, url string) (string, error)
}

// Appender writes scored jobs to the output log
type Appender interface {
	Append(job types.ScoredJob) error
}

// Result is the outcome of one pipeline run. Job is nil when Status is not
// StatusScored.
type Result struct {
	Status string          `json:"status"`
	Job    *types.ScoredJob `json:"job,omitempty"`
	Tokens *ai.TokenUsage  `json:"-"`
}

// Pipeline wires the collaborators together
type Pipeline struct {
	extractor ai.Extractor
	ocr       TextExtractor
	resolver  LinkResolver
	log       Appender
	logger    *errors.Logger
}

// New creates a pipeline. The OCR engine, resolver and log may be nil when
// the corresponding inputs are never used (the rate path needs none of them).
func New(extractor ai.Extractor, ocr TextExtractor, resolver LinkResolver, log Appender, logger *errors.Logger) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		ocr:       ocr,
		resolver:  resolver,
		log:       log,
		logger:    logger,
	}
}

// ProcessMessage runs the full flow for a free-text message. Extraction
// failure is not an error: it yields a "could not parse" result and nothing
// is written to the log.
func (p *Pipeline) ProcessMessage(ctx context.Context, message string) (Result, error) {
	if p.extractor == nil {
		return Result{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"No extractor configured", nil)
	}

	// Messages that carry a job board link are resolved first so the
	// extractor sees the posting itself rather than the bare URL.
	if p.resolver != nil {
		if url := scrape.FindJobURL(message); url != "" {
			p.logger.Info("Job URL detected in message, resolving", "url", url)
			return p.ProcessURL(ctx, url)
		}
	}

	return p.processText(ctx, message)
}

// processText extracts a record from posting text and scores it. Unlike
// ProcessMessage it never re-enters the resolver, so resolved pages that
// still mention their own URL do not loop.
func (p *Pipeline) processText(ctx context.Context, message string) (Result, error) {
	if p.extractor == nil {
		return Result{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"No extractor configured", nil)
	}

	record, tokens, err := p.extractor.ExtractJob(ctx, types.ExtractJobInput{Message: message})
	if err != nil {
		p.logger.Warn("Extraction failed, skipping scoring", "error", err.Error())
		return Result{Status: StatusCouldNotParse, Tokens: tokens}, nil
	}
	if isEmptyRecord(record) {
		p.logger.Warn("Extraction produced an empty record, skipping scoring")
		return Result{Status: StatusCouldNotParse, Tokens: tokens}, nil
	}

	result, err := p.ProcessRecord(ctx, record)
	result.Tokens = tokens
	return result, err
}

// ProcessImage OCRs the image and feeds the recognized text through the
// message flow.
func (p *Pipeline) ProcessImage(ctx context.Context, path string) (Result, error) {
	if p.ocr == nil {
		return Result{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"No OCR engine configured", nil)
	}

	text, err := p.ocr.ImageToText(ctx, path)
	if err != nil {
		p.logger.Warn("OCR failed, skipping scoring", "path", path, "error", err.Error())
		return Result{Status: StatusCouldNotParse}, nil
	}
	return p.processText(ctx, text)
}

// ProcessURL resolves the job board URL and feeds the posting text through
// the message flow.
func (p *Pipeline) ProcessURL(ctx context.Context, url string) (Result, error) {
	if p.resolver == nil {
		return Result{}, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"No link resolver configured", nil)
	}

	text, err := p.resolver.Resolve(ctx, url)
	if err != nil {
		p.logger.Warn("URL resolution failed, skipping scoring", "url", url, "error", err.Error())
		return Result{Status: StatusCouldNotParse}, nil
	}
	return p.processText(ctx, text)
}

// ProcessRecord scores an already-extracted record and appends it to the
// log. Scoring itself never fails; only the log append can.
func (p *Pipeline) ProcessRecord(ctx context.Context, record types.JobRecord) (Result, error) {
	scored := types.ScoredJob{
		JobRecord:   record,
		ScoreResult: score.Evaluate(record),
	}

	if p.log != nil {
		if err := p.log.Append(scored); err != nil {
			return Result{}, err
		}
	}

	p.logger.Info("Scored job",
		"title", record.JobTitle,
		"company", record.CompanyName,
		"score", scored.Score,
		"tier", scored.Tier)

	return Result{Status: StatusScored, Job: &scored}, nil
}

// isEmptyRecord reports whether extraction yielded no usable fields at all.
func isEmptyRecord(record types.JobRecord) bool {
	return record.JobTitle == "" &&
		record.JobDescription == "" &&
		record.CompanyName == "" &&
		record.Location == "" &&
		len(record.ExperienceRequired) == 0 &&
		len(record.TechStack) == 0 &&
		len(record.ContactInfo) == 0
}
