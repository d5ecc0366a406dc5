package commands

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/bootstrap"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/dataset"
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Inspect department datasets",
}

var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured departments and their files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := bootstrap.NewLoader(cfg, logger)
		ui.Section("Departments")
		for _, dep := range loader.Departments() {
			files, err := loader.Files(dep)
			if err != nil {
				return err
			}
			ui.KeyValue(dep, strings.Join(files, ", "))
		}
		return nil
	},
}

var datasetsCheckCmd = &cobra.Command{
	Use:   "check [department...]",
	Short: "Load every configured file and report record counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return checkDatasets(bootstrap.NewLoader(cfg, logger), args)
	},
}

func init() {
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsCheckCmd)
	rootCmd.AddCommand(datasetsCmd)
}

// checkDatasets inspects the named departments, or all of them, and fails if
// any present file cannot be read.
func checkDatasets(loader *dataset.Loader, departments []string) error {
	if len(departments) == 0 {
		departments = loader.Departments()
	}

	total := 0
	for _, dep := range departments {
		files, err := loader.Files(dep)
		if err != nil {
			return err
		}
		total += len(files)
	}

	bar := ui.NewProgressBar(int64(total), "Loading datasets")
	var statuses []dataset.FileStatus
	for _, dep := range departments {
		bar.Describe(dep)
		found, err := loader.Inspect(dep)
		if err != nil {
			return err
		}
		statuses = append(statuses, found...)
		bar.Add(len(found))
	}
	bar.Finish()

	rows := make([][]string, 0, len(statuses))
	failed := 0
	for _, st := range statuses {
		state := "ok"
		switch {
		case st.Err != nil:
			state = ui.Truncate(st.Err.Error(), 60)
			failed++
		case !st.Exists:
			state = "missing"
		}
		rows = append(rows, []string{st.Department, filepath.Base(st.Path), strconv.Itoa(st.Records), state})
	}

	ui.Section("Datasets")
	ui.Table([]string{"Department", "File", "Records", "Status"}, rows)
	ui.Newline()

	if failed > 0 {
		return fmt.Errorf("%d dataset file(s) failed to load", failed)
	}
	ui.Success("All present dataset files loaded")
	return nil
}
