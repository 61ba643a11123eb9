package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gencraft/chat-api/internal/config"
	"github.com/gencraft/chat-api/internal/llm"
	"github.com/gencraft/chat-api/internal/service"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Rebuild every user's chat list from the chats collection",
		Long: `Rebuild the userChats collection from chats.

Run this while the API is stopped, e.g. after a failed index write left a
chat missing from (or lingering in) a user's chat list.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			if cfg.StoreBackend != config.StoreMongo {
				return fmt.Errorf("reindex requires the %s store backend", config.StoreMongo)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			store, err := openBackend(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer store.close(context.Background())

			svc := service.NewChatService(store.chats, store.index, llm.Placeholder{}, nil, log)
			report, err := svc.Reindex(ctx)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	})
}
