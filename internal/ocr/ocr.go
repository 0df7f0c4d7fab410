// Package ocr extracts text from job posting screenshots by shelling out to
// the tesseract binary.
package ocr

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"jobsift/internal/config"
	"jobsift/internal/errors"
)

// Engine runs OCR over image files
type Engine struct {
	cfg    config.OCRConfig
	logger *errors.Logger
}

// NewEngine creates an OCR engine from configuration
func NewEngine(cfg config.OCRConfig, logger *errors.Logger) *Engine {
	return &Engine{
		cfg:    cfg,
		logger: logger,
	}
}

// ImageToText runs the configured OCR binary over the image at path and
// returns the recognized text.
func (e *Engine) ImageToText(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotFound,
			"Image file not found", err).WithContext("path", path)
	}

	runCtx := ctx
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	args := []string{path, "stdout"}
	if e.cfg.Languages != "" {
		args = append(args, "-l", e.cfg.Languages)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, e.cfg.Binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.logger.Debug("Running OCR",
		"binary", e.cfg.Binary,
		"path", path,
		"languages", e.cfg.Languages)

	if err := cmd.Run(); err != nil {
		return "", errors.NewExternError(errors.ErrCodeOCRFailed,
			"OCR command failed", err).
			WithContext("binary", e.cfg.Binary).
			WithContext("stderr", strings.TrimSpace(stderr.String()))
	}

	text := strings.TrimSpace(stdout.String())
	if text == "" {
		return "", errors.NewExternError(errors.ErrCodeOCRFailed,
			"OCR produced no text", nil).WithContext("path", path)
	}

	e.logger.Debug("OCR completed", "path", path, "text_length", len(text))
	return text, nil
}
