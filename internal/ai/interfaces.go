package ai

import (
	"context"

	"jobsift/internal/types"
)

// AIProvider interface for different AI implementations
// All methods return token usage information - callers can ignore it if not needed
type AIProvider interface {
	ExtractJob(ctx context.Context, input types.ExtractJobInput) (types.JobRecord, *TokenUsage, error)
	GetModelInfo(ctx context.Context) *ModelInfo
	Close() error
}

// Extractor is the narrow interface the pipeline depends on
type Extractor interface {
	ExtractJob(ctx context.Context, input types.ExtractJobInput) (types.JobRecord, *TokenUsage, error)
}
