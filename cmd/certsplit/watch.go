// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/certsplit/internal/watch"
	"github.com/pdiddy/certsplit/pkg/types"
)

var watchCmd = &cobra.Command{
	Use:   "watch <inbox>",
	Short: "Split every certificate batch dropped into an inbox directory",
	Long: `Watch runs split for each PDF that appears in the inbox directory, until
interrupted. PDFs already in the inbox are processed first unless
--initial-scan=false. Bursts of writes to the same file are coalesced so a
batch is split once it has been fully copied in.

Watch never prompts for a plate; use --plate or the config file.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindRunFlags,
	RunE:    runWatch,
}

func init() {
	addRunFlags(watchCmd.Flags())
	watchCmd.Flags().Bool("initial-scan", true, "process PDFs already present in the inbox")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is processed")
	watchCmd.Flags().String("report-dir", "", "write one XLSX run report per batch into this directory")

	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	initialScan, _ := cmd.Flags().GetBool("initial-scan")
	debounce, _ := cmd.Flags().GetDuration("debounce")
	reportDir, _ := cmd.Flags().GetString("report-dir")

	wcfg := types.WatchConfig{
		Inbox:       args[0],
		InitialScan: initialScan,
		Debounce:    debounce,
	}
	cfg := splitConfig()
	out := cmd.OutOrStdout()

	s, closeIndex, err := newSplitter()
	if err != nil {
		return err
	}
	defer closeIndex()

	fmt.Fprintf(out, "watching %s (Ctrl+C to stop)\n", wcfg.Inbox)

	handle := func(ctx context.Context, path string) error {
		started := time.Now()
		fmt.Fprintf(out, "\nprocessing %s\n", path)

		res, err := s.Run(ctx, path, cfg, out)
		if err != nil {
			return err
		}
		logger.Info("batch processed", "path", path, "run", res.RunID,
			"exported", res.Summary.Exported, "elapsed", time.Since(started))

		return finishRun(out, res, reportPath(reportDir, path))
	}

	return watch.Run(cmd.Context(), wcfg, handle, logger)
}

// reportPath names the workbook for one batch, or "" when reports are off.
func reportPath(dir, source string) string {
	if dir == "" {
		return ""
	}
	stem := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(dir, stem+".xlsx")
}
