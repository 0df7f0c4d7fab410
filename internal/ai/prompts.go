package ai

// SystemPrompts contains all system-level instructions for AI interactions
type SystemPrompts struct {
	ExtractJob string
}

// UserPrompts contains user-level prompts with placeholders for dynamic content
type UserPrompts struct {
	ExtractJob string
}

// DefaultSystemPrompts provides the default system instructions
var DefaultSystemPrompts = SystemPrompts{
	ExtractJob: `You are a precise information extraction engine for job postings shared in chat groups and forums. Your core principles are:

- Extract only what the message actually states, never infer or embellish
- Preserve the original wording of the posting wherever possible
- Messages are informal: broken formatting, emoji, mixed languages and forwarded headers are all expected
- When a field is not present in the message, return an empty value for it

You specialize in recognizing:
- Job titles and role names, however informally written
- Company names, including ones buried in contact signatures
- Experience requirements, stipend and salary mentions
- Technology stacks and skill lists
- Contact details such as emails, phone numbers and application links`,
}

// DefaultUserPrompts provides the default user prompt templates
var DefaultUserPrompts = UserPrompts{
	ExtractJob: `Extract the job posting details from the message below into structured fields.

**Fields to extract:**

1. **job_title**: The role being advertised.
2. **job_description**: A faithful summary of the role, responsibilities and anything else the message says about the work. Keep salary, work mode and perks mentions intact.
3. **company_name**: The hiring company or organization.
4. **location**: City, country or work mode (remote, hybrid, onsite) as stated.
5. **experience_required**: Experience expectations, one entry per distinct requirement (e.g. "1-2 years", "freshers welcome").
6. **tech_stack**: Technologies, languages, frameworks and tools mentioned, one entry each.
7. **contact_info**: Emails, phone numbers and application links, one entry each.

If the message is not a job posting, or a field is genuinely absent, return an empty string or empty list for that field. Do not invent values.

**Message:**
-----
%s
-----`,
}

// PromptConfig holds configuration for customizable prompts
type PromptConfig struct {
	SystemPrompts SystemPrompts `json:"systemPrompts"`
	UserPrompts   UserPrompts   `json:"userPrompts"`
}

// GetDefaultPromptConfig returns the default prompt configuration
func GetDefaultPromptConfig() PromptConfig {
	return PromptConfig{
		SystemPrompts: DefaultSystemPrompts,
		UserPrompts:   DefaultUserPrompts,
	}
}
