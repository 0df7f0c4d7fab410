// Package joblog appends scored jobs to an on-disk log.
//
// The default "legacy" format writes each record as an indented JSON object
// followed by ",\n", matching what existing downstream readers consume. The
// file as a whole is therefore not a single valid JSON document. The "jsonl"
// format writes one compact object per line instead.
package joblog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"jobsift/internal/config"
	"jobsift/internal/errors"
	"jobsift/internal/types"
)

// Log formats
const (
	FormatLegacy = "legacy"
	FormatJSONL  = "jsonl"
)

// Log appends scored jobs to a file
type Log struct {
	cfg    config.JobLogConfig
	logger *errors.Logger
}

// New creates a log from configuration
func New(cfg config.JobLogConfig, logger *errors.Logger) (*Log, error) {
	switch cfg.Format {
	case FormatLegacy, FormatJSONL:
	case "":
		cfg.Format = FormatLegacy
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Invalid job log format: "+cfg.Format, nil)
	}
	if cfg.Path == "" {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			"Job log path is required", nil)
	}

	return &Log{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Path returns the log file path
func (l *Log) Path() string {
	return l.cfg.Path
}

// Append writes one scored job to the end of the log
func (l *Log) Append(job types.ScoredJob) error {
	var payload []byte
	var err error

	switch l.cfg.Format {
	case FormatJSONL:
		payload, err = json.Marshal(job)
		if err == nil {
			payload = append(payload, '\n')
		}
	default:
		payload, err = json.MarshalIndent(job, "", "  ")
		if err == nil {
			payload = append(payload, ',', '\n')
		}
	}
	if err != nil {
		return errors.NewInternalError(errors.ErrCodeLogAppendFailed,
			"Failed to encode scored job", err)
	}

	if dir := filepath.Dir(l.cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewIOError(errors.ErrCodeLogAppendFailed,
				"Failed to create log directory", err).WithContext("path", l.cfg.Path)
		}
	}

	f, err := os.OpenFile(l.cfg.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeLogAppendFailed,
			"Failed to open job log", err).WithContext("path", l.cfg.Path)
	}
	defer f.Close()

	if _, err := f.Write(payload); err != nil {
		return errors.NewIOError(errors.ErrCodeLogAppendFailed,
			"Failed to append to job log", err).WithContext("path", l.cfg.Path)
	}

	l.logger.Debug("Appended scored job",
		"path", l.cfg.Path,
		"format", l.cfg.Format,
		"score", job.Score,
		"tier", job.Tier)
	return nil
}

// Load reads every record back from the log. Legacy files are rewrapped into
// a JSON array before decoding.
func (l *Log) Load() ([]types.ScoredJob, error) {
	data, err := os.ReadFile(l.cfg.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"Failed to read job log", err).WithContext("path", l.cfg.Path)
	}

	switch l.cfg.Format {
	case FormatJSONL:
		var jobs []types.ScoredJob
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			var job types.ScoredJob
			if err := json.Unmarshal([]byte(line), &job); err != nil {
				return nil, errors.NewIOError(errors.ErrCodeInvalidFormat,
					"Malformed job log line", err).WithContext("path", l.cfg.Path)
			}
			jobs = append(jobs, job)
		}
		return jobs, nil
	default:
		text := strings.TrimSpace(string(data))
		text = strings.TrimSuffix(text, ",")
		if text == "" {
			return nil, nil
		}
		var jobs []types.ScoredJob
		if err := json.Unmarshal([]byte("["+text+"]"), &jobs); err != nil {
			return nil, errors.NewIOError(errors.ErrCodeInvalidFormat,
				"Malformed job log", err).WithContext("path", l.cfg.Path)
		}
		return jobs, nil
	}
}
