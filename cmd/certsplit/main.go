// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the certsplit CLI.
//
// certsplit splits a concatenated batch of vehicle insurance coverage
// certificates into one PDF and one JSON metadata document per certificate.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// logger carries diagnostics to stderr. Progress lines go to stdout.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

// rootCmd is the base command for the certsplit CLI.
var rootCmd = &cobra.Command{
	Use:   "certsplit",
	Short: "Split batches of vehicle coverage certificates",
	Long: `certsplit takes a PDF holding many concatenated "SEGURO DE AUTOMOTORES /
CERTIFICADO DE COBERTURA" certificates and writes one PDF plus one JSON
metadata document per certificate, filed under holder, brand, vehicle and
plate.

Use split for a single batch, watch to process every batch dropped into an
inbox directory, and index to search certificates exported by earlier runs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger = newLogger(os.Stderr, verbose)
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Info("using config file", "path", f)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./certsplit.yaml or ~/.config/certsplit/certsplit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log per-block diagnostics to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("certsplit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "certsplit"))
		}
	}

	viper.SetEnvPrefix("CERTSPLIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			fmt.Fprintf(os.Stderr, "reading config %s: %v\n", cfgFile, err)
			os.Exit(1)
		}
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
