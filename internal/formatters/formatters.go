package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"jobsift/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "ScoredJob", &ScoredJobTextFormatter{})
	registry.RegisterFormatter("markdown", "ScoredJob", &ScoredJobMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ScoredJob:
		return "ScoredJob"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// ScoredJobTextFormatter handles text formatting for scored jobs
type ScoredJobTextFormatter struct{}

func (sf *ScoredJobTextFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoredJob)
	if !ok {
		return "", fmt.Errorf("expected ScoredJob, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== SCORED JOB ===\n\n")
	output.WriteString(fmt.Sprintf("Title:    %s\n", orDash(result.JobTitle)))
	output.WriteString(fmt.Sprintf("Company:  %s\n", orDash(result.CompanyName)))
	output.WriteString(fmt.Sprintf("Location: %s\n", orDash(result.Location)))
	if len(result.ExperienceRequired) > 0 {
		output.WriteString(fmt.Sprintf("Experience: %s\n", strings.Join(result.ExperienceRequired, ", ")))
	}
	if len(result.TechStack) > 0 {
		output.WriteString(fmt.Sprintf("Tech Stack: %s\n", strings.Join(result.TechStack, ", ")))
	}
	if len(result.ContactInfo) > 0 {
		output.WriteString(fmt.Sprintf("Contact: %s\n", strings.Join(result.ContactInfo, ", ")))
	}
	output.WriteString("\n")

	if result.JobDescription != "" {
		output.WriteString("Description:\n")
		output.WriteString(result.JobDescription)
		output.WriteString("\n\n")
	}

	output.WriteString("=== SCORE ===\n")
	output.WriteString(fmt.Sprintf("Score: %d\n", result.Score))
	output.WriteString(fmt.Sprintf("Tier:  %s\n", result.Tier))
	if len(result.Tags) > 0 {
		output.WriteString("Tags:\n")
		for _, tag := range result.Tags {
			output.WriteString(fmt.Sprintf("- %s\n", tag))
		}
	} else {
		output.WriteString("Tags: none\n")
	}

	return output.String(), nil
}

func (sf *ScoredJobTextFormatter) SupportedType() string {
	return "ScoredJob"
}

// ScoredJobMarkdownFormatter handles markdown formatting for scored jobs
type ScoredJobMarkdownFormatter struct{}

func (sf *ScoredJobMarkdownFormatter) Format(data any) (string, error) {
	result, ok := data.(types.ScoredJob)
	if !ok {
		return "", fmt.Errorf("expected ScoredJob, got %T", data)
	}

	var output strings.Builder

	title := result.JobTitle
	if title == "" {
		title = "Untitled Posting"
	}
	output.WriteString(fmt.Sprintf("# %s\n\n", title))
	output.WriteString(fmt.Sprintf("**Company:** %s\n\n", orDash(result.CompanyName)))
	output.WriteString(fmt.Sprintf("**Location:** %s\n\n", orDash(result.Location)))
	if len(result.ExperienceRequired) > 0 {
		output.WriteString(fmt.Sprintf("**Experience:** %s\n\n", strings.Join(result.ExperienceRequired, ", ")))
	}
	if len(result.TechStack) > 0 {
		output.WriteString(fmt.Sprintf("**Tech Stack:** %s\n\n", strings.Join(result.TechStack, ", ")))
	}
	if len(result.ContactInfo) > 0 {
		output.WriteString(fmt.Sprintf("**Contact:** %s\n\n", strings.Join(result.ContactInfo, ", ")))
	}

	if result.JobDescription != "" {
		output.WriteString("## Description\n\n")
		output.WriteString(result.JobDescription)
		output.WriteString("\n\n")
	}

	output.WriteString("## Score\n\n")
	output.WriteString(fmt.Sprintf("**Score:** %d\n\n", result.Score))
	output.WriteString(fmt.Sprintf("**Tier:** %s\n\n", result.Tier))
	if len(result.Tags) > 0 {
		output.WriteString("### Tags\n")
		for _, tag := range result.Tags {
			output.WriteString(fmt.Sprintf("- %s\n", tag))
		}
	}

	return output.String(), nil
}

func (sf *ScoredJobMarkdownFormatter) SupportedType() string {
	return "ScoredJob"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
