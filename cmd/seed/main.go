package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/oggyb/muzz-matching/internal/config"
	"github.com/oggyb/muzz-matching/internal/db"
	"github.com/oggyb/muzz-matching/internal/logger"
	"github.com/oggyb/muzz-matching/internal/seed"
)

func main() {
	var (
		configFile string
		opts       = seed.DefaultOptions
	)

	cmd := &cobra.Command{
		Use:          "seed",
		Short:        "Reset the database and fill it with demo data",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger.InitFromConfig(cfg)

			database, err := db.NewDB(cfg)
			if err != nil {
				return fmt.Errorf("failed to init db: %w", err)
			}

			stats, err := seed.Run(cmd.Context(), database, opts, logger.L())
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			logger.Info("seeding completed", "users", stats.Users, "likes", stats.Likes, "mutual", stats.Mutual)
			return nil
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "optional YAML config file")
	cmd.Flags().IntVar(&opts.Users, "users", opts.Users, "number of users to create")
	cmd.Flags().IntVar(&opts.LikesPerUser, "likes", opts.LikesPerUser, "likes sent per user")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
