package ocr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jobsift/internal/config"
	jobsiftErrors "jobsift/internal/errors"
)

func testLogger(t *testing.T) *jobsiftErrors.Logger {
	t.Helper()
	logger, err := jobsiftErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-ocr.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func writeImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "posting.png")
	if err := os.WriteFile(path, []byte("not-really-a-png"), 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func TestImageToText(t *testing.T) {
	script := writeScript(t, `echo "Hiring: Backend Engineer at Acme"`)
	image := writeImage(t)

	engine := NewEngine(config.OCRConfig{Binary: script, Timeout: 10 * time.Second}, testLogger(t))
	text, err := engine.ImageToText(context.Background(), image)
	if err != nil {
		t.Fatalf("ImageToText() error = %v", err)
	}
	if text != "Hiring: Backend Engineer at Acme" {
		t.Errorf("text = %q, want trimmed command output", text)
	}
}

func TestImageToTextMissingFile(t *testing.T) {
	script := writeScript(t, `echo ignored`)

	engine := NewEngine(config.OCRConfig{Binary: script}, testLogger(t))
	_, err := engine.ImageToText(context.Background(), filepath.Join(t.TempDir(), "missing.png"))
	if err == nil {
		t.Fatal("expected error for missing image")
	}
	appErr, ok := err.(*jobsiftErrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != jobsiftErrors.ErrCodeFileNotFound {
		t.Errorf("error code = %s, want %s", appErr.Code, jobsiftErrors.ErrCodeFileNotFound)
	}
}

func TestImageToTextCommandFailure(t *testing.T) {
	script := writeScript(t, `echo "boom" >&2; exit 3`)
	image := writeImage(t)

	engine := NewEngine(config.OCRConfig{Binary: script}, testLogger(t))
	_, err := engine.ImageToText(context.Background(), image)
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	appErr, ok := err.(*jobsiftErrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != jobsiftErrors.ErrCodeOCRFailed {
		t.Errorf("error code = %s, want %s", appErr.Code, jobsiftErrors.ErrCodeOCRFailed)
	}
	if stderr, _ := appErr.Context["stderr"].(string); !strings.Contains(stderr, "boom") {
		t.Errorf("stderr context = %q, want to contain %q", stderr, "boom")
	}
}

func TestImageToTextEmptyOutput(t *testing.T) {
	script := writeScript(t, `echo "   "`)
	image := writeImage(t)

	engine := NewEngine(config.OCRConfig{Binary: script}, testLogger(t))
	_, err := engine.ImageToText(context.Background(), image)
	if err == nil {
		t.Fatal("expected error for empty OCR output")
	}
}
