package pipeline

import (
	"context"
	"fmt"
	"testing"

	"jobsift/internal/ai"
	jobsiftErrors "jobsift/internal/errors"
	"jobsift/internal/types"
)

type fakeExtractor struct {
	record types.JobRecord
	err    error
}

func (f *fakeExtractor) ExtractJob(_ context.Context, _ types.ExtractJobInput) (types.JobRecord, *ai.TokenUsage, error) {
	return f.record, nil, f.err
}

type fakeOCR struct {
	text string
	err  error
	path string
}

func (f *fakeOCR) ImageToText(_ context.Context, path string) (string, error) {
	f.path = path
	return f.text, f.err
}

type fakeResolver struct {
	text string
	err  error
	url  string
}

func (f *fakeResolver) Resolve(_ context.Context, url string) (string, error) {
	f.url = url
	return f.text, f.err
}

type fakeLog struct {
	appended []types.ScoredJob
	err      error
}

func (f *fakeLog) Append(job types.ScoredJob) error {
	if f.err != nil {
		return f.err
	}
	f.appended = append(f.appended, job)
	return nil
}

func testLogger(t *testing.T) *jobsiftErrors.Logger {
	t.Helper()
	logger, err := jobsiftErrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestProcessMessageScoresAndAppends(t *testing.T) {
	extractor := &fakeExtractor{
		record: types.JobRecord{
			JobTitle:       "Backend Engineer",
			JobDescription: "full-time role with salary and mentorship, remote",
			CompanyName:    "Acme",
			Location:       "Remote",
		},
	}
	log := &fakeLog{}
	p := New(extractor, nil, nil, log, testLogger(t))

	result, err := p.ProcessMessage(context.Background(), "we are hiring!")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if result.Status != StatusScored {
		t.Fatalf("status = %q, want %q", result.Status, StatusScored)
	}
	if result.Job == nil {
		t.Fatal("result has no job")
	}
	if result.Job.Score <= 0 {
		t.Errorf("score = %d, want positive", result.Job.Score)
	}
	if len(log.appended) != 1 {
		t.Fatalf("appended %d jobs, want 1", len(log.appended))
	}
	if log.appended[0].JobTitle != "Backend Engineer" {
		t.Errorf("appended title = %q", log.appended[0].JobTitle)
	}
}

func TestProcessMessageExtractionFailure(t *testing.T) {
	extractor := &fakeExtractor{err: fmt.Errorf("model unavailable")}
	log := &fakeLog{}
	p := New(extractor, nil, nil, log, testLogger(t))

	result, err := p.ProcessMessage(context.Background(), "gibberish")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v, extraction failure must not be an error", err)
	}
	if result.Status != StatusCouldNotParse {
		t.Errorf("status = %q, want %q", result.Status, StatusCouldNotParse)
	}
	if result.Job != nil {
		t.Error("result carries a job after failed extraction")
	}
	if len(log.appended) != 0 {
		t.Errorf("appended %d jobs after failed extraction, want 0", len(log.appended))
	}
}

func TestProcessMessageEmptyRecord(t *testing.T) {
	extractor := &fakeExtractor{record: types.JobRecord{}}
	log := &fakeLog{}
	p := New(extractor, nil, nil, log, testLogger(t))

	result, err := p.ProcessMessage(context.Background(), "not a job at all")
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if result.Status != StatusCouldNotParse {
		t.Errorf("status = %q, want %q", result.Status, StatusCouldNotParse)
	}
	if len(log.appended) != 0 {
		t.Errorf("appended %d jobs for empty record, want 0", len(log.appended))
	}
}

func TestProcessMessageDetectsJobURL(t *testing.T) {
	extractor := &fakeExtractor{
		record: types.JobRecord{JobTitle: "Data Engineer", CompanyName: "Acme"},
	}
	resolver := &fakeResolver{text: "Data Engineer at Acme, full-time"}
	log := &fakeLog{}
	p := New(extractor, nil, resolver, log, testLogger(t))

	msg := "check this out https://www.linkedin.com/jobs/view/4018233311 looks good"
	result, err := p.ProcessMessage(context.Background(), msg)
	if err != nil {
		t.Fatalf("ProcessMessage() error = %v", err)
	}
	if resolver.url != "https://www.linkedin.com/jobs/view/4018233311" {
		t.Errorf("resolver received url %q", resolver.url)
	}
	if result.Status != StatusScored {
		t.Errorf("status = %q, want %q", result.Status, StatusScored)
	}
}

func TestProcessImage(t *testing.T) {
	extractor := &fakeExtractor{
		record: types.JobRecord{JobTitle: "Intern", JobDescription: "unpaid internship"},
	}
	ocr := &fakeOCR{text: "unpaid internship, apply now"}
	log := &fakeLog{}
	p := New(extractor, ocr, nil, log, testLogger(t))

	result, err := p.ProcessImage(context.Background(), "/tmp/posting.png")
	if err != nil {
		t.Fatalf("ProcessImage() error = %v", err)
	}
	if result.Status != StatusScored {
		t.Errorf("status = %q, want %q", result.Status, StatusScored)
	}
	if ocr.path != "/tmp/posting.png" {
		t.Errorf("OCR received path %q", ocr.path)
	}
}

func TestProcessImageOCRFailure(t *testing.T) {
	ocr := &fakeOCR{err: fmt.Errorf("tesseract not found")}
	log := &fakeLog{}
	p := New(&fakeExtractor{}, ocr, nil, log, testLogger(t))

	result, err := p.ProcessImage(context.Background(), "/tmp/posting.png")
	if err != nil {
		t.Fatalf("ProcessImage() error = %v", err)
	}
	if result.Status != StatusCouldNotParse {
		t.Errorf("status = %q, want %q", result.Status, StatusCouldNotParse)
	}
	if len(log.appended) != 0 {
		t.Errorf("appended %d jobs after OCR failure, want 0", len(log.appended))
	}
}

func TestProcessURL(t *testing.T) {
	extractor := &fakeExtractor{
		record: types.JobRecord{JobTitle: "SRE", CompanyName: "Acme"},
	}
	resolver := &fakeResolver{text: "SRE role at Acme"}
	log := &fakeLog{}
	p := New(extractor, nil, resolver, log, testLogger(t))

	result, err := p.ProcessURL(context.Background(), "https://www.linkedin.com/jobs/view/1")
	if err != nil {
		t.Fatalf("ProcessURL() error = %v", err)
	}
	if result.Status != StatusScored {
		t.Errorf("status = %q, want %q", result.Status, StatusScored)
	}
	if resolver.url != "https://www.linkedin.com/jobs/view/1" {
		t.Errorf("resolver received url %q", resolver.url)
	}
}

func TestProcessURLResolverFailure(t *testing.T) {
	resolver := &fakeResolver{err: fmt.Errorf("page did not load")}
	log := &fakeLog{}
	p := New(&fakeExtractor{}, nil, resolver, log, testLogger(t))

	result, err := p.ProcessURL(context.Background(), "https://www.linkedin.com/jobs/view/2")
	if err != nil {
		t.Fatalf("ProcessURL() error = %v", err)
	}
	if result.Status != StatusCouldNotParse {
		t.Errorf("status = %q, want %q", result.Status, StatusCouldNotParse)
	}
}

func TestProcessRecordAppendFailureSurfaces(t *testing.T) {
	log := &fakeLog{err: fmt.Errorf("disk full")}
	p := New(&fakeExtractor{}, nil, nil, log, testLogger(t))

	_, err := p.ProcessRecord(context.Background(), types.JobRecord{JobTitle: "X"})
	if err == nil {
		t.Fatal("expected append failure to surface")
	}
}

func TestProcessRecordWithoutLog(t *testing.T) {
	p := New(&fakeExtractor{}, nil, nil, nil, testLogger(t))

	result, err := p.ProcessRecord(context.Background(), types.JobRecord{JobTitle: "X"})
	if err != nil {
		t.Fatalf("ProcessRecord() error = %v", err)
	}
	if result.Status != StatusScored {
		t.Errorf("status = %q, want %q", result.Status, StatusScored)
	}
}

func TestMissingCollaborators(t *testing.T) {
	p := New(nil, nil, nil, nil, testLogger(t))

	if _, err := p.ProcessMessage(context.Background(), "msg"); err == nil {
		t.Error("expected error without extractor")
	}
	if _, err := p.ProcessImage(context.Background(), "img.png"); err == nil {
		t.Error("expected error without OCR engine")
	}
	if _, err := p.ProcessURL(context.Background(), "https://www.linkedin.com/jobs/view/3"); err == nil {
		t.Error("expected error without resolver")
	}
}
