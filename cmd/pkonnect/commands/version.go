package commands

import (
	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
)

var appVersion = "dev"

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	appVersion = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and backend settings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ui.Message("pkonnect %s", appVersion)
		ui.KeyValue("model", cfg.Generator.Model)
		ui.KeyValue("backend", cfg.Generator.BaseURL)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
