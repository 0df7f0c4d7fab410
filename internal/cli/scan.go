package cli

import (
	"fmt"

	"jobsift/internal/common"

	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image-file]",
	Short: "Score a job posting from a screenshot",
	Long: `Score a job posting from a screenshot or photo. The image is run
through OCR first and the recognized text goes through the same AI
extraction and scoring as a plain message.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if scanConfig.OutputFormat == "" {
			scanConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(scanConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runScan,
}

var scanConfig common.CommandConfig

func init() {
	scanCmd.Flags().StringVarP(&scanConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().StringVar(&scanConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = scanCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	fileProcessor := common.NewFileProcessor(logger)
	if err := fileProcessor.ValidateImageFile(args[0]); err != nil {
		return err
	}

	p, err := buildScoringPipeline(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("Starting image scoring",
		"image", args[0],
		"output_format", scanConfig.OutputFormat)

	err = common.RunPipelineCommand(cmd.Context(), logger, scanConfig, args[0], p.ProcessImage)
	if err != nil {
		return fmt.Errorf("failed to score image: %w", err)
	}
	return nil
}
