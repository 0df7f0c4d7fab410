package ai

import (
	"testing"
)

func TestDecodeRecordCleanJSON(t *testing.T) {
	raw := `{
		"job_title": "Backend Engineer",
		"job_description": "Build APIs",
		"company_name": "Acme",
		"location": "Remote",
		"experience_required": ["1-2 years"],
		"tech_stack": ["go", "postgres"],
		"contact_info": ["jobs@acme.example"]
	}`

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "Backend Engineer" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "Backend Engineer")
	}
	if len(record.TechStack) != 2 || record.TechStack[0] != "go" {
		t.Errorf("TechStack = %v, want [go postgres]", record.TechStack)
	}
}

func TestDecodeRecordCodeFence(t *testing.T) {
	raw := "```json\n{\"job_title\": \"Data Analyst\", \"job_description\": \"Dashboards\", \"company_name\": \"Acme\", \"location\": \"Pune\"}\n```"

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "Data Analyst" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "Data Analyst")
	}
	if record.Location != "Pune" {
		t.Errorf("Location = %q, want %q", record.Location, "Pune")
	}
}

func TestDecodeRecordFenceWithoutLanguage(t *testing.T) {
	raw := "```\n{\"job_title\": \"QA Engineer\"}\n```"

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "QA Engineer" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "QA Engineer")
	}
}

func TestDecodeRecordTwoObjectsMerged(t *testing.T) {
	// Models sometimes emit the record split across two back to back objects
	raw := `{"job_title": "DevOps Engineer", "company_name": "Acme"}
{"job_description": "Run the clusters", "location": "Bengaluru"}`

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "DevOps Engineer" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "DevOps Engineer")
	}
	if record.JobDescription != "Run the clusters" {
		t.Errorf("JobDescription = %q, want %q", record.JobDescription, "Run the clusters")
	}
	if record.Location != "Bengaluru" {
		t.Errorf("Location = %q, want %q", record.Location, "Bengaluru")
	}
}

func TestDecodeRecordMergePrefersFirstNonEmpty(t *testing.T) {
	raw := `{"job_title": "SRE", "location": ""}
{"job_title": "Janitor", "location": "Mumbai"}`

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "SRE" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "SRE")
	}
	if record.Location != "Mumbai" {
		t.Errorf("Location = %q, want %q", record.Location, "Mumbai")
	}
}

func TestDecodeRecordSurroundingProse(t *testing.T) {
	raw := `Here is the extracted posting:
{"job_title": "ML Engineer", "company_name": "Acme"}
Let me know if you need anything else.`

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "ML Engineer" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "ML Engineer")
	}
}

func TestDecodeRecordBracesInsideStrings(t *testing.T) {
	raw := `{"job_title": "Engineer", "job_description": "Work with {templates} and \"quoted\" text"}`

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "Engineer" {
		t.Errorf("JobTitle = %q, want %q", record.JobTitle, "Engineer")
	}
}

func TestDecodeRecordCoercesMalformedTypes(t *testing.T) {
	raw := `{"job_title": null, "location": 400001, "tech_stack": "go", "experience_required": [2, "years"]}`

	record, err := DecodeRecord(raw)
	if err != nil {
		t.Fatalf("DecodeRecord() error = %v", err)
	}
	if record.JobTitle != "" {
		t.Errorf("JobTitle = %q, want empty", record.JobTitle)
	}
	if record.Location != "400001" {
		t.Errorf("Location = %q, want %q", record.Location, "400001")
	}
	if len(record.TechStack) != 1 || record.TechStack[0] != "go" {
		t.Errorf("TechStack = %v, want [go]", record.TechStack)
	}
	if len(record.ExperienceRequired) != 2 || record.ExperienceRequired[0] != "2" {
		t.Errorf("ExperienceRequired = %v, want [2 years]", record.ExperienceRequired)
	}
}

func TestDecodeRecordNoJSON(t *testing.T) {
	for _, raw := range []string{"", "   ", "sorry, that message is not a job posting"} {
		if _, err := DecodeRecord(raw); err == nil {
			t.Errorf("DecodeRecord(%q) expected error, got nil", raw)
		}
	}
}
