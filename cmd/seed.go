/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/woorical/apiserver/config"
	"github.com/woorical/apiserver/internal/db"
	"github.com/woorical/apiserver/internal/services"
	"github.com/woorical/apiserver/internal/store"
)

// seedCmd represents the seed command. The server seeds on startup as well;
// this exists so the roster can be bootstrapped before first deploy.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the fixed user roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.LoadConfig()

		dbConn, err := db.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open database failed: %w", err)
		}
		defer func() {
			_ = dbConn.Close()
		}()

		userRepo := store.NewUserRepository(dbConn)
		userService := services.NewUserService(userRepo, cfg.Roster)

		if err := userService.SeedRoster(cmd.Context()); err != nil {
			return fmt.Errorf("seed roster failed: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
