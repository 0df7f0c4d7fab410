package scrape

import (
	"context"
	"os"
	"path/filepath"
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
	path := filepath.Join(t.TempDir(), "fake-scraper.sh")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestFindJobURL(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "bare link",
			text: "https://www.linkedin.com/jobs/view/3850012345",
			want: "https://www.linkedin.com/jobs/view/3850012345",
		},
		{
			name: "link inside message",
			text: "hey folks, open role here https://www.linkedin.com/jobs/view/123 apply soon",
			want: "https://www.linkedin.com/jobs/view/123",
		},
		{
			name: "profile link is not a job",
			text: "https://www.linkedin.com/in/someone",
			want: "",
		},
		{
			name: "plain text",
			text: "hiring backend engineers, DM me",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindJobURL(tt.text); got != tt.want {
				t.Errorf("FindJobURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	script := writeScript(t, `echo "Senior Go Engineer at Acme. Remote. Apply at careers.acme.example"`)

	resolver := NewResolver(config.ResolverConfig{
		Command: []string{script},
		Timeout: 10 * time.Second,
	}, testLogger(t))

	text, err := resolver.Resolve(context.Background(), "https://www.linkedin.com/jobs/view/123")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if text != "Senior Go Engineer at Acme. Remote. Apply at careers.acme.example" {
		t.Errorf("text = %q, want trimmed command output", text)
	}
}

func TestResolvePassesURLAsLastArgument(t *testing.T) {
	script := writeScript(t, `echo "last arg: $1"`)

	resolver := NewResolver(config.ResolverConfig{
		Command: []string{script},
	}, testLogger(t))

	text, err := resolver.Resolve(context.Background(), "https://www.linkedin.com/jobs/view/42")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if text != "last arg: https://www.linkedin.com/jobs/view/42" {
		t.Errorf("text = %q, command did not receive the URL", text)
	}
}

func TestResolveCommandFailure(t *testing.T) {
	script := writeScript(t, `echo "page gone" >&2; exit 1`)

	resolver := NewResolver(config.ResolverConfig{
		Command: []string{script},
	}, testLogger(t))

	_, err := resolver.Resolve(context.Background(), "https://www.linkedin.com/jobs/view/999")
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	appErr, ok := err.(*jobsiftErrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != jobsiftErrors.ErrCodeResolverFailed {
		t.Errorf("error code = %s, want %s", appErr.Code, jobsiftErrors.ErrCodeResolverFailed)
	}
}

func TestResolveTimeout(t *testing.T) {
	script := writeScript(t, `sleep 5; echo "too late"`)

	resolver := NewResolver(config.ResolverConfig{
		Command: []string{script},
		Timeout: 100 * time.Millisecond,
	}, testLogger(t))

	_, err := resolver.Resolve(context.Background(), "https://www.linkedin.com/jobs/view/7")
	if err == nil {
		t.Fatal("expected error for timed out command")
	}
	appErr, ok := err.(*jobsiftErrors.AppError)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != jobsiftErrors.ErrCodeNetworkTimeout {
		t.Errorf("error code = %s, want %s", appErr.Code, jobsiftErrors.ErrCodeNetworkTimeout)
	}
}

func TestResolveValidation(t *testing.T) {
	resolver := NewResolver(config.ResolverConfig{
		Command: []string{"true"},
	}, testLogger(t))

	if _, err := resolver.Resolve(context.Background(), "  "); err == nil {
		t.Error("expected error for empty URL")
	}

	unconfigured := NewResolver(config.ResolverConfig{}, testLogger(t))
	if _, err := unconfigured.Resolve(context.Background(), "https://www.linkedin.com/jobs/view/1"); err == nil {
		t.Error("expected error for missing command")
	}
}
