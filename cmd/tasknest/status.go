package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tasknest/internal/config"
	"tasknest/internal/store"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check store connectivity and print collection counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Mongo.Timeout)
			defer cancel()

			db, err := store.Open(ctx, cfg.Mongo.URL, cfg.Mongo.Database)
			if err != nil {
				return err
			}
			defer db.Close(ctx)

			tasks, err := db.Tasks.Count(ctx, nil)
			if err != nil {
				return err
			}
			users, err := db.Users.Count(ctx, nil)
			if err != nil {
				return err
			}

			fmt.Printf("store:  %s/%s\n", cfg.Mongo.URL, cfg.Mongo.Database)
			fmt.Printf("tasks:  %d\n", tasks)
			fmt.Printf("users:  %d\n", users)
			return nil
		},
	}
}
