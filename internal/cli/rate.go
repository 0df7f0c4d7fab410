package cli

import (
	"encoding/json"
	"fmt"

	"jobsift/internal/common"
	"jobsift/internal/errors"
	"jobsift/internal/pipeline"
	"jobsift/internal/types"

	"github.com/spf13/cobra"
)

var rateCmd = &cobra.Command{
	Use:   "rate [record-file]",
	Short: "Score an already-extracted job record",
	Long: `Score an already-extracted job record. The command takes one
argument: the path to a JSON file holding a job record. No AI call is
made and nothing is appended to the job log, so this works offline and
without an API key.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if rateConfig.OutputFormat == "" {
			rateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(rateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runRate,
}

var rateConfig common.CommandConfig

func init() {
	rateCmd.Flags().StringVarP(&rateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	rateCmd.Flags().StringVar(&rateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = rateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runRate(cmd *cobra.Command, args []string) error {
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	content, err := fileProcessor.ValidateAndReadFile(args[0])
	if err != nil {
		return err
	}

	var record types.JobRecord
	if err := json.Unmarshal([]byte(content), &record); err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("File is not a valid job record: %s", args[0]), err)
	}

	// Scoring only: no extractor, no log append.
	p := pipeline.New(nil, nil, nil, nil, logger)

	result, err := p.ProcessRecord(cmd.Context(), record)
	if err != nil {
		return fmt.Errorf("failed to rate record: %w", err)
	}

	outputHandler := common.NewOutputHandler(logger)
	return outputHandler.HandleOutput(*result.Job, rateConfig)
}
