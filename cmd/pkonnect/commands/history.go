package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/bootstrap"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/storage"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently answered questions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <exchange-id>",
	Short: "Show one recorded exchange",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of exchanges to show")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func withHistory(cmd *cobra.Command, fn func(ctx context.Context, repo *storage.ExchangeRepository) error) error {
	if !cfg.History.Enabled {
		return errors.New("history is disabled in the configuration")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, repo, err := bootstrap.NewHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, repo)
}

func runHistory(cmd *cobra.Command, args []string) error {
	return withHistory(cmd, func(ctx context.Context, repo *storage.ExchangeRepository) error {
		return showHistory(ctx, repo, historyLimit)
	})
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid exchange id %q: %w", args[0], err)
	}
	return withHistory(cmd, func(ctx context.Context, repo *storage.ExchangeRepository) error {
		return showExchange(ctx, repo, id)
	})
}

// historyReader is the read side of the exchange repository.
type historyReader interface {
	ListRecent(ctx context.Context, limit int) ([]*storage.Exchange, error)
	CountByPhase(ctx context.Context) ([]storage.PhaseCount, error)
}

func showHistory(ctx context.Context, repo historyReader, limit int) error {
	exchanges, err := repo.ListRecent(ctx, limit)
	if err != nil {
		return err
	}
	if len(exchanges) == 0 {
		ui.Warning("No exchanges recorded yet")
		return nil
	}

	rows := make([][]string, 0, len(exchanges))
	for _, ex := range exchanges {
		flags := ""
		if ex.Fallback {
			flags += "F"
		}
		if ex.Cached {
			flags += "C"
		}
		rows = append(rows, []string{
			ex.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			ex.UserType,
			ex.Department,
			ex.MatchPhase,
			strconv.Itoa(ex.MatchCount),
			strconv.FormatInt(ex.LatencyMs, 10) + "ms",
			flags,
			ui.Truncate(ex.Message, 50),
		})
	}

	ui.Section("Recent exchanges")
	ui.Table([]string{"Time", "User", "Department", "Phase", "Matches", "Latency", "Flags", "Message"}, rows)

	counts, err := repo.CountByPhase(ctx)
	if err != nil {
		return err
	}
	ui.Section("By match phase")
	for _, c := range counts {
		ui.KeyValue(c.MatchPhase, strconv.Itoa(c.Count))
	}
	return nil
}

type exchangeGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*storage.Exchange, error)
}

func showExchange(ctx context.Context, repo exchangeGetter, id uuid.UUID) error {
	ex, err := repo.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("exchange %s not found", id)
	}
	if err != nil {
		return err
	}

	ui.Section("Exchange " + ex.ID.String())
	ui.KeyValue("Time", ex.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	ui.KeyValue("Request", ex.RequestID)
	ui.KeyValue("User", ex.UserType)
	ui.KeyValue("Department", ex.Department)
	ui.KeyValue("Role", ex.Role)
	ui.KeyValue("Phase", fmt.Sprintf("%s (%d matches)", ex.MatchPhase, ex.MatchCount))
	ui.KeyValue("Latency", strconv.FormatInt(ex.LatencyMs, 10)+"ms")
	ui.KeyValue("Fallback", strconv.FormatBool(ex.Fallback))
	ui.KeyValue("Cached", strconv.FormatBool(ex.Cached))
	ui.KeyValue("Message", ex.Message)
	return nil
}
