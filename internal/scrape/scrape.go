// Package scrape resolves job board links to posting text by delegating to an
// external scraper command.
package scrape

import (
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strings"

	"jobsift/internal/config"
	"jobsift/internal/errors"
)

// linkedinJobURL matches public LinkedIn job posting links.
var linkedinJobURL = regexp.MustCompile(`https://www\.linkedin\.com/jobs/view/\d+`)

// FindJobURL returns the first job posting link found in text, or the empty
// string when there is none.
func FindJobURL(text string) string {
	return linkedinJobURL.FindString(text)
}

// IsJobURL reports whether url points at a supported job posting.
func IsJobURL(url string) bool {
	return linkedinJobURL.MatchString(url)
}

// Resolver fetches posting text for a job URL via an external command
type Resolver struct {
	cfg    config.ResolverConfig
	logger *errors.Logger
}

// NewResolver creates a resolver from configuration
func NewResolver(cfg config.ResolverConfig, logger *errors.Logger) *Resolver {
	return &Resolver{
		cfg:    cfg,
		logger: logger,
	}
}

// Resolve runs the configured scraper command with the URL as its final
// argument and returns the text it prints to stdout.
func (r *Resolver) Resolve(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", errors.NewValidationError(errors.ErrCodeEmptyInput,
			"URL is required", nil)
	}
	if len(r.cfg.Command) == 0 {
		return "", errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"No resolver command configured", nil)
	}

	runCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	args := append(append([]string{}, r.cfg.Command[1:]...), url)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, r.cfg.Command[0], args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug("Resolving job URL",
		"command", r.cfg.Command[0],
		"url", url)

	if err := cmd.Run(); err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", errors.NewExternError(errors.ErrCodeNetworkTimeout,
				"Resolver command timed out", err).
				WithContext("url", url).
				WithContext("timeout", r.cfg.Timeout.String())
		}
		return "", errors.NewExternError(errors.ErrCodeResolverFailed,
			"Resolver command failed", err).
			WithContext("url", url).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", errors.NewExternError(errors.ErrCodeResolverFailed,
			"Resolver produced no text", nil).WithContext("url", url)
	}

	r.logger.Debug("Resolved job URL", "url", url, "text_length", len(text))
	return text, nil
}
