package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:         "gemini",
			Model:            "gemini-2.0-flash",
			Timeout:          60 * time.Second,
			APIKey:           "global-key",
			MaxRetries:       3,
			Temperature:      0.2,
			UseSystemPrompts: true,
		},
		OCR: OCRConfig{
			Binary:  "tesseract",
			Timeout: 30 * time.Second,
		},
		Resolver: ResolverConfig{
			Command: []string{"node", "linkedinscrap.js"},
			Timeout: 30 * time.Second,
		},
		JobLog: JobLogConfig{
			Path:   "scored_jobs.json",
			Format: "legacy",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1024 * 1024,
		},
	}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v for a valid config", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero AI timeout", func(c *Config) { c.AI.Timeout = 0 }},
		{"missing port", func(c *Config) { c.Server.Port = "" }},
		{"unknown default format", func(c *Config) { c.App.DefaultFormat = "yaml" }},
		{"unknown job log format", func(c *Config) { c.JobLog.Format = "xml" }},
		{"missing job log path", func(c *Config) { c.JobLog.Path = "" }},
		{"missing OCR binary", func(c *Config) { c.OCR.Binary = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestValidateTLSConfig(t *testing.T) {
	tests := []struct {
		name    string
		tls     TLSConfig
		wantErr bool
	}{
		{"disabled", TLSConfig{Mode: "disabled"}, false},
		{"server with files", TLSConfig{Mode: "server", CertFile: "c.pem", KeyFile: "k.pem"}, false},
		{"server with content", TLSConfig{Mode: "server", CertContent: "cert", KeyContent: "key"}, false},
		{"server missing key", TLSConfig{Mode: "server", CertFile: "c.pem"}, true},
		{"server with file and content", TLSConfig{Mode: "server", CertFile: "c.pem", CertContent: "cert", KeyFile: "k.pem"}, true},
		{"mutual without CA", TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem"}, true},
		{"mutual with CA", TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem", CAFile: "ca.pem"}, false},
		{"unknown mode", TLSConfig{Mode: "tls-everywhere"}, true},
		{"bad min version", TLSConfig{Mode: "server", CertFile: "c.pem", KeyFile: "k.pem", MinVersion: "1.0"}, true},
		{"bad client auth policy", TLSConfig{Mode: "mutual", CertFile: "c.pem", KeyFile: "k.pem", CAFile: "ca.pem", ClientAuthPolicy: "never"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.TLS = tt.tls
			err := cfg.ValidateTLSConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTLSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetExtractConfigFallbacks(t *testing.T) {
	cfg := validConfig()

	extract := cfg.GetExtractConfig()
	if extract.Provider != "gemini" {
		t.Errorf("Provider = %q, want global fallback", extract.Provider)
	}
	if extract.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q, want global fallback", extract.Model)
	}
	if extract.APIKey != "global-key" {
		t.Errorf("APIKey = %q, want global fallback", extract.APIKey)
	}
	if extract.Timeout == nil || *extract.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want global fallback", extract.Timeout)
	}
	if extract.UseSystemPrompts == nil || !*extract.UseSystemPrompts {
		t.Errorf("UseSystemPrompts = %v, want global fallback", extract.UseSystemPrompts)
	}
}

func TestGetExtractConfigOverrides(t *testing.T) {
	cfg := validConfig()
	timeout := 10 * time.Second
	cfg.AI.Extract = OperationAIConfig{
		Model:   "gemini-2.5-pro",
		APIKey:  "op-key",
		Timeout: &timeout,
	}

	extract := cfg.GetExtractConfig()
	if extract.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q, operation override lost", extract.Model)
	}
	if extract.APIKey != "op-key" {
		t.Errorf("APIKey = %q, operation override lost", extract.APIKey)
	}
	if *extract.Timeout != timeout {
		t.Errorf("Timeout = %v, operation override lost", *extract.Timeout)
	}
}

func TestLoadPromptsFromFiles(t *testing.T) {
	dir := t.TempDir()
	promptFile := filepath.Join(dir, "extract_system.txt")
	if err := os.WriteFile(promptFile, []byte("You extract job postings.\n"), 0o644); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}

	cfg := validConfig()
	cfg.AI.CustomPrompts.SystemPrompts.ExtractJobFile = promptFile
	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles() error = %v", err)
	}
	if cfg.AI.CustomPrompts.SystemPrompts.ExtractJob != "You extract job postings." {
		t.Errorf("ExtractJob prompt = %q", cfg.AI.CustomPrompts.SystemPrompts.ExtractJob)
	}
}

func TestLoadPromptsFromFilesInlineWins(t *testing.T) {
	dir := t.TempDir()
	promptFile := filepath.Join(dir, "extract_system.txt")
	if err := os.WriteFile(promptFile, []byte("from file"), 0o644); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}

	cfg := validConfig()
	cfg.AI.CustomPrompts.SystemPrompts.ExtractJob = "inline"
	cfg.AI.CustomPrompts.SystemPrompts.ExtractJobFile = promptFile
	if err := cfg.loadPromptsFromFiles(); err != nil {
		t.Fatalf("loadPromptsFromFiles() error = %v", err)
	}
	if cfg.AI.CustomPrompts.SystemPrompts.ExtractJob != "inline" {
		t.Errorf("inline prompt was overwritten: %q", cfg.AI.CustomPrompts.SystemPrompts.ExtractJob)
	}
}

func TestLoadPromptsFromFilesMissingFile(t *testing.T) {
	cfg := validConfig()
	cfg.AI.CustomPrompts.UserPrompts.ExtractJobFile = filepath.Join(t.TempDir(), "absent.txt")
	if err := cfg.loadPromptsFromFiles(); err == nil {
		t.Error("expected error for missing prompt file")
	}
}

func TestApplyFallbacks(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "legacy-key")
	t.Setenv("JOBSIFT_SERVER_APIKEYS", " key-a , key-b ")

	cfg := validConfig()
	cfg.AI.APIKey = ""
	cfg.Observability.ServiceName = "jobsift"
	cfg.applyFallbacks()

	if cfg.AI.APIKey != "legacy-key" {
		t.Errorf("AI.APIKey = %q, want legacy env fallback", cfg.AI.APIKey)
	}
	if len(cfg.Server.APIKeys) != 2 || cfg.Server.APIKeys[0] != "key-a" || cfg.Server.APIKeys[1] != "key-b" {
		t.Errorf("Server.APIKeys = %v, want trimmed keys from env", cfg.Server.APIKeys)
	}
	if cfg.Observability.ServiceInstance == "" {
		t.Error("ServiceInstance was not auto-generated")
	}
}
