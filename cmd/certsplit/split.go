// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/certsplit/internal/index"
	"github.com/pdiddy/certsplit/internal/pdfdoc"
	"github.com/pdiddy/certsplit/internal/report"
	"github.com/pdiddy/certsplit/internal/sink"
	"github.com/pdiddy/certsplit/internal/split"
	"github.com/pdiddy/certsplit/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split <source.pdf>",
	Short: "Split one certificate batch into per-certificate PDF and JSON files",
	Long: `Split detects every coverage certificate in the source PDF, extracts its
fields, and writes <out>/<holder>/<brand>/<type year>/<PLATE>/poliza_<PLATE>.pdf
with a matching .json metadata document.

With --plate only the certificates for that vehicle are exported. When no
plate is given and stdin is a terminal, the plate is asked for interactively;
an empty answer processes every certificate.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: bindRunFlags,
	RunE:    runSplit,
}

// runFlags maps config keys to the flags shared by split and watch.
var runFlags = map[string]string{
	"out":            "out",
	"plate":          "plate",
	"max_pagination": "max-pagination",
	"lookahead":      "lookahead",
	"keep_going":     "keep-going",
	"disambiguate":   "disambiguate",
	"index_db":       "index-db",
}

func addRunFlags(fs *pflag.FlagSet) {
	fs.String("out", types.DefaultOutDir, "output root directory")
	fs.String("plate", "", "export only the certificates for this plate")
	fs.Int("max-pagination", types.DefaultMaxPagination, "largest plausible page total in an \"X de Y\" marker")
	fs.Int("lookahead", types.DefaultLookahead, "pages inspected after a header page when no page marker is found")
	fs.Bool("keep-going", false, "record a failing certificate and continue instead of aborting")
	fs.Bool("disambiguate", false, "suffix the plate directory when two certificates map to the same one")
	fs.String("index-db", "", "record exported certificates in this SQLite database")
}

// bindRunFlags binds the invoked command's flags, so split and watch do not
// override each other's bindings.
func bindRunFlags(cmd *cobra.Command, args []string) error {
	for key, flag := range runFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return fmt.Errorf("binding --%s: %w", flag, err)
		}
	}
	if f := cmd.Flags().Lookup("report"); f != nil {
		return viper.BindPFlag("report", f)
	}
	return nil
}

func init() {
	addRunFlags(splitCmd.Flags())
	splitCmd.Flags().String("report", "", "write an XLSX run report to this path")
	splitCmd.Flags().Bool("no-prompt", false, "never ask for a plate interactively")

	rootCmd.AddCommand(splitCmd)
}

// splitConfig resolves the run settings from flags, environment, and config file.
func splitConfig() types.SplitConfig {
	return types.SplitConfig{
		SegmentConfig: types.SegmentConfig{
			MaxPagination: viper.GetInt("max_pagination"),
			Lookahead:     viper.GetInt("lookahead"),
		}.WithDefaults(),
		OutDir:       viper.GetString("out"),
		Plate:        viper.GetString("plate"),
		KeepGoing:    viper.GetBool("keep_going"),
		Disambiguate: viper.GetBool("disambiguate"),
	}
}

// newSplitter wires the production collaborators. The returned closer
// releases the index database when one is configured.
func newSplitter() (*split.Splitter, func() error, error) {
	snk, err := sink.New()
	if err != nil {
		return nil, nil, err
	}
	s := &split.Splitter{
		Text:   pdfdoc.TextReader{},
		Copier: pdfdoc.NewCopier(),
		Sink:   snk,
		Logger: logger,
	}

	closer := func() error { return nil }
	if path := viper.GetString("index_db"); path != "" {
		store, err := index.NewStore(types.IndexConfig{Path: path})
		if err != nil {
			return nil, nil, err
		}
		s.Index = store
		closer = store.Close
	}
	return s, closer, nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg := splitConfig()
	out := cmd.OutOrStdout()

	noPrompt, _ := cmd.Flags().GetBool("no-prompt")
	if cfg.Plate == "" && !noPrompt && isInteractive(os.Stdin) {
		plate, err := promptPlate(os.Stdin, out)
		if err != nil {
			return fmt.Errorf("reading plate: %w", err)
		}
		cfg.Plate = plate
	}

	s, closeIndex, err := newSplitter()
	if err != nil {
		return err
	}
	defer closeIndex()

	res, err := s.Run(cmd.Context(), args[0], cfg, out)
	if err != nil {
		return err
	}
	return finishRun(out, res, viper.GetString("report"))
}

// finishRun prints the closing report and writes the workbook when asked.
func finishRun(w io.Writer, res split.Result, reportPath string) error {
	split.Report(w, res)

	if reportPath != "" {
		if err := report.Save(reportPath, res); err != nil {
			return err
		}
		fmt.Fprintf(w, "Reporte: %s\n", reportPath)
	}

	if res.Summary.HasFailures() {
		return fmt.Errorf("%d certificate(s) failed to export", res.Summary.Failed)
	}
	return nil
}
