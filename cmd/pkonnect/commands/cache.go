package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/cmd/pkonnect/ui"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/bootstrap"
	"github.com/Prabigyakafle890/Pkonnect-Gemma2b/internal/chatbot"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the answer cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached answer",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		client, err := bootstrap.NewCache(cfg)
		if err != nil {
			return err
		}
		if client == nil {
			ui.Warning("Answer cache is disabled")
			return nil
		}
		defer client.Close()

		if err := chatbot.NewAnswerCache(client, cfg.Cache.TTL, logger).Invalidate(ctx); err != nil {
			return err
		}
		ui.Success("Answer cache cleared (%s)", cfg.Cache.Driver)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}
