package joblog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobsift/internal/config"
	jobsiftErrors "jobsift/internal/errors"
	"jobsift/internal/types"
)

func testLogger(t *testing.T) *jobsiftErrors.Logger {
	t.Helper()
	logger, err := jobsiftErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func sampleJob(title string, score int) types.ScoredJob {
	return types.ScoredJob{
		JobRecord: types.JobRecord{
			JobTitle:       title,
			JobDescription: "desc",
			CompanyName:    "Acme",
			Location:       "Remote",
		},
		ScoreResult: types.ScoreResult{
			Score: score,
			Tier:  types.TierLow,
			Tags:  []string{"remote"},
		},
	}
}

func TestAppendLegacyFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scored_jobs.json")
	log, err := New(config.JobLogConfig{Path: path}, testLogger(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := log.Append(sampleJob("First", 3)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := log.Append(sampleJob("Second", 5)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	content := string(data)

	if !strings.HasSuffix(content, ",\n") {
		t.Errorf("log does not end with %q separator", ",\n")
	}
	if got := strings.Count(content, "},\n"); got != 2 {
		t.Errorf("separator count = %d, want 2", got)
	}
	if !strings.Contains(content, "  \"job_title\": \"First\"") {
		t.Errorf("log is not indented as expected:\n%s", content)
	}
}

func TestAppendJSONLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scored_jobs.jsonl")
	log, err := New(config.JobLogConfig{Path: path, Format: FormatJSONL}, testLogger(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := log.Append(sampleJob("First", 3)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := log.Append(sampleJob("Second", 5)); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("line count = %d, want 2", len(lines))
	}
	for _, line := range lines {
		if strings.Contains(line, "\n") || !strings.HasPrefix(line, "{") || !strings.HasSuffix(line, "}") {
			t.Errorf("line is not a compact JSON object: %q", line)
		}
	}
}

func TestLoadRoundTrip(t *testing.T) {
	for _, format := range []string{FormatLegacy, FormatJSONL} {
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "scored_jobs.log")
			log, err := New(config.JobLogConfig{Path: path, Format: format}, testLogger(t))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			if err := log.Append(sampleJob("First", 3)); err != nil {
				t.Fatalf("Append() error = %v", err)
			}
			if err := log.Append(sampleJob("Second", 12)); err != nil {
				t.Fatalf("Append() error = %v", err)
			}

			jobs, err := log.Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(jobs) != 2 {
				t.Fatalf("loaded %d jobs, want 2", len(jobs))
			}
			if jobs[0].JobTitle != "First" || jobs[1].JobTitle != "Second" {
				t.Errorf("titles = %q, %q", jobs[0].JobTitle, jobs[1].JobTitle)
			}
			if jobs[1].Score != 12 {
				t.Errorf("second score = %d, want 12", jobs[1].Score)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	log, err := New(config.JobLogConfig{Path: filepath.Join(t.TempDir(), "absent.json")}, testLogger(t))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	jobs, err := log.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(jobs) != 0 {
		t.Errorf("loaded %d jobs from missing file, want 0", len(jobs))
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(config.JobLogConfig{}, testLogger(t)); err == nil {
		t.Error("expected error for missing path")
	}
	if _, err := New(config.JobLogConfig{Path: "x.json", Format: "xml"}, testLogger(t)); err == nil {
		t.Error("expected error for unknown format")
	}
}
