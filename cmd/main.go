package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"golang-fin-scryper/internal/fin/config"
	"golang-fin-scryper/internal/fin/repository"
	"golang-fin-scryper/pkg/logger"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "fin-scryper",
	Short: "A CLI for the DART financial statement service",
	Long:  `Fetches, stores and analyzes DART financial statements. Use fin-service serve to run the API.`,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [company name]",
	Short: "Resolves a company name against the DART company directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = appLogger.Sync() }()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		info, err := repository.NewDartRepository(cfg, appLogger).FindCompany(ctx, args[0])
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	},
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config-fin.yaml", "Path to the configuration file")
	rootCmd.AddCommand(lookupCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
