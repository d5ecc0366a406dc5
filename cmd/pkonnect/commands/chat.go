package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
)

const goodbye = "Goodbye!"

var (
	chatUserType   string
	chatDepartment string
	chatRole       string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session. Type one of the configured exit words
(quit or exit by default) to leave.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	addQueryFlags(chatCmd, &chatUserType, &chatDepartment, &chatRole)
	rootCmd.AddCommand(chatCmd)
}

// addQueryFlags registers the routing flags shared by chat and ask.
func addQueryFlags(cmd *cobra.Command, userType, department, role *string) {
	cmd.Flags().StringVarP(userType, "user-type", "u", chatbot.UserTypeGuest, "user type (guest or student)")
	cmd.Flags().StringVarP(department, "department", "d", "", "department tag, e.g. \"BSC CSIT\" or BIT")
	cmd.Flags().StringVarP(role, "role", "r", "", "role of the student user")
}

// answerer is the part of the chatbot service the REPL needs.
type answerer interface {
	Answer(ctx context.Context, q chatbot.Query) chatbot.Answer
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	ui.Section(cfg.Assistant.CollegeName + " Assistant")
	ui.Info("User type: %s", chatUserType)
	if chatDepartment != "" {
		ui.Info("Department: %s", chatDepartment)
	}
	ui.Newline()

	query := chatbot.Query{UserType: chatUserType, Department: chatDepartment, Role: chatRole}
	return chatLoop(ctx, app.Service, ui.NewPrompter(os.Stdin), query, true)
}

// chatLoop reads questions until an exit word, end of input or cancellation.
func chatLoop(ctx context.Context, svc answerer, prompter *ui.Prompter, base chatbot.Query, spin bool) error {
	for {
		if ctx.Err() != nil {
			ui.Answer(goodbye)
			return nil
		}

		input, err := prompter.Prompt("You: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				ui.Newline()
				ui.Answer(goodbye)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		if cfg.IsExitWord(input) {
			ui.Answer(goodbye)
			return nil
		}
		if input == "" {
			continue
		}

		q := base
		q.Message = input

		var spinner *ui.Spinner
		if spin {
			spinner = ui.NewSpinner("Thinking...")
			spinner.Start()
		}
		ans := svc.Answer(ctx, q)
		if spinner != nil {
			spinner.Stop()
		}

		ui.Answer(ans.Text)
		ui.Debug("request=%s phase=%s matches=%d cached=%t", ans.RequestID, ans.Phase, ans.Matches, ans.Cached)
	}
}
