package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
)

var (
	askUserType   string
	askDepartment string
	askRole       string
	askJSON       bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	addQueryFlags(askCmd, &askUserType, &askDepartment, &askRole)
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

type askOutput struct {
	Response  string `json:"response"`
	RequestID string `json:"request_id"`
	Phase     string `json:"match_phase"`
	Matches   int    `json:"match_count"`
	Fallback  bool   `json:"fallback"`
	Cached    bool   `json:"cached"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	q := chatbot.Query{
		Message:    strings.Join(args, " "),
		UserType:   askUserType,
		Department: askDepartment,
		Role:       askRole,
	}
	return ask(ctx, app.Service, q, askJSON, os.Stdout)
}

func ask(ctx context.Context, svc answerer, q chatbot.Query, asJSON bool, w io.Writer) error {
	var spinner *ui.Spinner
	if !asJSON {
		spinner = ui.NewSpinner("Thinking...")
		spinner.Start()
	}
	ans := svc.Answer(ctx, q)
	if spinner != nil {
		spinner.Stop()
	}

	if !asJSON {
		ui.Answer(ans.Text)
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(askOutput{
		Response:  ans.Text,
		RequestID: ans.RequestID,
		Phase:     string(ans.Phase),
		Matches:   ans.Matches,
		Fallback:  ans.Fallback,
		Cached:    ans.Cached,
	}); err != nil {
		return fmt.Errorf("encode answer: %w", err)
	}
	return nil
}
