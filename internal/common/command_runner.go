package common

import (
	"context"
	"fmt"
	"os"

	"jobsift/internal/errors"
	"jobsift/internal/pipeline"
)

// PipelineOperation is the signature shared by all pipeline entry points the
// CLI invokes (message, image, URL).
type PipelineOperation func(ctx context.Context, input string) (pipeline.Result, error)

// RunPipelineCommand encapsulates the common logic for pipeline-backed CLI
// commands: run the operation, report token usage, and hand the scored job to
// the output handler. A "could not parse" outcome is reported on stdout and
// is not an error.
func RunPipelineCommand(
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	input string,
	operation PipelineOperation,
) error {
	outputHandler := NewOutputHandler(logger)

	result, err := operation(ctx, input)
	if err != nil {
		return err
	}

	// Report token usage
	if result.Tokens != nil {
		if logger != nil {
			logger.Info("AI token usage",
				"input_tokens", result.Tokens.InputTokens,
				"output_tokens", result.Tokens.OutputTokens,
				"total_tokens", result.Tokens.TotalTokens)
		} else {
			fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n",
				result.Tokens.InputTokens, result.Tokens.OutputTokens, result.Tokens.TotalTokens)
		}
	}

	if result.Job == nil {
		fmt.Println(result.Status)
		return nil
	}

	return outputHandler.HandleOutput(*result.Job, cmdConfig)
}
