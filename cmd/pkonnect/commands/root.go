// Package commands implements the pkonnect CLI.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/bootstrap"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/config"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/observability"
)

var (
	cfgFile string
	envFile string
	verbose bool
	noColor bool

	cfg    *config.Config
	logger *observability.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pkonnect",
	Short: "College assistant answering questions from department records",
	Long: `pkonnect answers student and guest questions about the college.

Student questions are matched against the department's teacher and student
records, and the matches are handed to a local language model as context.

Use this tool to:
- Chat interactively or ask a single question
- Check that department datasets load
- Inspect the answered-question history
- Clear the answer cache`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// keep the terminal readable unless asked otherwise
		switch {
		case verbose:
			cfg.Observability.LogLevel = "debug"
		case os.Getenv("LOG_LEVEL") == "":
			cfg.Observability.LogLevel = "warn"
		}
		if os.Getenv("LOG_FORMAT") == "" {
			cfg.Observability.LogFormat = "console"
		}

		ui.InitUI(noColor, verbose)
		logger = bootstrap.NewLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the config")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadEnvFile loads path into the environment. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
