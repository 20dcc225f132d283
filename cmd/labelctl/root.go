package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sizzle/labelpress/config"
	"github.com/sizzle/labelpress/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	application *app.App
	logger      *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "labelctl",
	Short: "Render label sheets and weekly menus from the product store",
	Long: `labelctl works on the same product store as the labelpress server.
It renders label sheets and weekly menus to PDF files and imports
products from CSV exports.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if application == nil {
			return nil
		}
		defer logger.Sync()
		return application.Close(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(labelCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(importCmd)
}

// setup loads configuration and wires the services for every subcommand
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	zl, err := app.NewLogger(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = zl.Sugar()

	application, err = app.New(cmd.Context(), cfg, logger)
	return err
}

// writeOutput writes a rendered document to path, or stdout for "-"
func writeOutput(path string, content []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(content)
		return err
	}
	return os.WriteFile(path, content, 0o644)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
