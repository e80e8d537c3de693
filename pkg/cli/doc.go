// Package cli provides the shared pieces of the inspiration command
// line tools.
//
// This package includes:
//   - Configuration loading (~/.inspiration/config.yaml)
//   - Output formatting (JSON, YAML, raw) with optional jq filtering
//   - Terminal rendering of analysis reports
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("")
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    Query:  ".recommendations.speech",
//	})
package cli
