package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talkgenius/inspiration/pkg/cli"
)

var (
	// Global flags
	flagConfig  string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "inspirationd",
	Short: "Speech and body language analysis service",
	Long: `inspirationd analyzes presentation videos: speaking rate, filler
words, pauses, pitch, posture, and eye contact, with coaching
recommendations. Optionally compares against a role model clip.

The service needs ffmpeg and ffprobe on PATH (or configured paths)
and an OpenAI-compatible transcription endpoint for speech-to-text.

Configuration lives at ~/.inspiration/config.yaml.

Examples:
  # Run the WebSocket service
  inspirationd serve --listen :8080

  # Analyze a clip locally
  inspirationd analyze talk.webm

  # Compare against a role model
  inspirationd analyze talk.webm --role-model keynote.webm --output summary`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.inspiration/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig() (*cli.Config, error) {
	return cli.LoadConfig(flagConfig)
}
