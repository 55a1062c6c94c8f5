// Package root contains the root command for the application
package root

import (
	"fjacquet/hkstmt/internal/config"
	"fjacquet/hkstmt/internal/logging"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Pretty bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration, available after
	// PersistentPreRun.
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "hkstmt",
		Short: "Reconstruct HSBC HK credit card statements from PDF into structured records.",
		Long: `hkstmt parses HSBC Hong Kong credit card statement PDFs, reconstructs every
transaction with exact decimal arithmetic, reconciles the totals and emits a
canonical JSON record. It can also export CSV or serve statements over HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to hkstmt!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			Cfg = cfg
			Log = config.NewLogger(cfg)
			return nil
		},
	}

	// SharedFlags holds common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input PDF file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file (default: stdout)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Pretty, "pretty", "p", false, "Pretty-print JSON output")
}
