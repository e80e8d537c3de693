package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/talkgenius/inspiration/pkg/asr"
	"github.com/talkgenius/inspiration/pkg/cli"
	"github.com/talkgenius/inspiration/pkg/pipeline"
	"github.com/talkgenius/inspiration/pkg/vision"
)

var (
	flagRoleModel string
	flagOutput    string
	flagOutFile   string
	flagQuery     string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video>",
	Short: "Analyze video files from the command line",
	Long: `Analyze a presentation video without running the service.

The full pipeline runs locally: audio extraction, transcription,
prosody, posture, and recommendations. Pass --role-model to compare
against a reference speaker.

Examples:
  inspirationd analyze talk.webm
  inspirationd analyze talk.webm --output summary
  inspirationd analyze talk.webm --query '.recommendations.speech'`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagRoleModel, "role-model", "", "reference video to compare against")
	analyzeCmd.Flags().StringVar(&flagOutput, "output", "summary", "output format (summary, json, yaml)")
	analyzeCmd.Flags().StringVarP(&flagOutFile, "out", "o", "", "write output to file instead of stdout")
	analyzeCmd.Flags().StringVarP(&flagQuery, "query", "q", "", "jq filter applied to the result (implies json)")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	job := pipeline.Job{}
	if job.Subject, err = os.ReadFile(args[0]); err != nil {
		return fmt.Errorf("failed to read video: %w", err)
	}
	cli.PrintVerbose(flagVerbose, "subject clip: %s", cli.FormatBytes(int64(len(job.Subject))))

	if flagRoleModel != "" {
		if job.Reference, err = os.ReadFile(flagRoleModel); err != nil {
			return fmt.Errorf("failed to read role model video: %w", err)
		}
		cli.PrintVerbose(flagVerbose, "reference clip: %s", cli.FormatBytes(int64(len(job.Reference))))
	}

	p := buildPipeline(cfg)
	start := time.Now()
	result, err := p.Analyze(context.Background(), job, func(status string) {
		cli.PrintVerbose(flagVerbose, "%s", status)
	})
	if err != nil {
		return err
	}
	cli.PrintVerbose(flagVerbose, "analysis took %s", cli.FormatDuration(int(time.Since(start).Milliseconds())))

	if flagOutput == "summary" && flagQuery == "" {
		if flagOutFile != "" {
			return os.WriteFile(flagOutFile, []byte(cli.Summary(result)), 0644)
		}
		fmt.Print(cli.Summary(result))
		return nil
	}

	format := cli.OutputFormat(flagOutput)
	if flagQuery != "" && flagOutput == "summary" {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   flagOutFile,
		Query:  flagQuery,
	})
}

// buildPipeline wires the pipeline from configuration. Missing
// credentials degrade gracefully: without an API key transcripts come
// back as unavailable, without sidecar URLs posture sees no
// detections.
func buildPipeline(cfg *cli.Config) *pipeline.Pipeline {
	var backend asr.Backend
	if key := cfg.ResolveAPIKey(); key != "" {
		var opts []asr.OpenAIOption
		if cfg.STT.BaseURL != "" {
			opts = append(opts, asr.WithBaseURL(cfg.STT.BaseURL))
		}
		if cfg.STT.Model != "" {
			opts = append(opts, asr.WithModel(cfg.STT.Model))
		}
		backend = asr.NewOpenAI(key, opts...)
	}

	var poser vision.PoseEstimator
	var facer vision.FaceEstimator
	if cfg.Vision.PoseURL != "" || cfg.Vision.FaceURL != "" {
		client := vision.NewClient(cfg.Vision.PoseURL, cfg.Vision.FaceURL)
		poser, facer = client, client
	}

	return pipeline.New(pipeline.Config{
		MaxClipBytes: cfg.MaxClipBytes,
		FFmpeg:       cfg.FFmpeg,
		FFprobe:      cfg.FFprobe,
	}, asr.NewTranscriber(backend), poser, facer)
}
