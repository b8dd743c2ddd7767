// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/certsplit/internal/index"
	"github.com/pdiddy/certsplit/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Search and export the manifest of exported certificates",
	Long: `Index reads the SQLite manifest that split and watch fill when
--index-db (or index_db in the config file) is set. Use query to find
certificates by plate, policy number, or holder, and export to dump the
manifest as YAML or JSON.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return viper.BindPFlag("index_db", cmd.Flags().Lookup("index-db"))
	},
}

// --- query subcommand ---

var indexQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Find indexed certificates by plate, policy, or holder",
	RunE:  runIndexQuery,
}

func runIndexQuery(cmd *cobra.Command, args []string) error {
	opts := indexOptsFromFlags(cmd)
	if opts.IsEmpty() {
		return fmt.Errorf("filter required: provide --plate, --policy, --holder, or --run")
	}

	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.Query(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatQueryOutput(w io.Writer, entries []index.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-9s  %-30s  %-18s  %-10s  %-7s  %s\n",
		"Patente", "Tomador", "Póliza", "Hasta", "Páginas", "PDF")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, e := range entries {
		holder := e.Holder
		if len(holder) > 30 {
			holder = holder[:27] + "..."
		}
		fmt.Fprintf(w, "%-9s  %-30s  %-18s  %-10s  %-7s  %s\n",
			e.Plate, holder, e.PolicyNumber, e.CoverageTo, e.PageRange, e.PDFPath)
	}

	fmt.Fprintf(w, "\n%d results\n", len(entries))
	return nil
}

// --- export subcommand ---

var indexExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the manifest to YAML or JSON",
	Long: `Export writes the whole manifest (or the subset matching the filter
flags) to stdout, or to --output when given.`,
	RunE: runIndexExport,
}

func runIndexExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openIndex(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	w := cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	opts := indexOptsFromFlags(cmd)
	switch format {
	case "yaml", "":
		err = store.ExportYAML(cmd.Context(), w, opts)
	case "json":
		err = store.ExportJSON(cmd.Context(), w, opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)
	}
	return nil
}

// --- shared helpers ---

func openIndex(cmd *cobra.Command) (*index.Store, error) {
	path := viper.GetString("index_db")
	if path == "" {
		return nil, fmt.Errorf("no index database: set --index-db or index_db in the config file")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("index database %s: %w", path, err)
	}
	maxResults, _ := cmd.Flags().GetInt("max-results")
	return index.NewStore(types.IndexConfig{Path: path, MaxResults: maxResults})
}

func indexOptsFromFlags(cmd *cobra.Command) index.QueryOptions {
	plate, _ := cmd.Flags().GetString("plate")
	policy, _ := cmd.Flags().GetString("policy")
	holder, _ := cmd.Flags().GetString("holder")
	runID, _ := cmd.Flags().GetString("run")
	limit, _ := cmd.Flags().GetInt("limit")

	return index.QueryOptions{
		Plate:      plate,
		Policy:     policy,
		Holder:     holder,
		RunID:      runID,
		MaxResults: limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("plate", "", "filter by plate (spaces and case ignored)")
	cmd.Flags().String("policy", "", "filter by policy number (hyphens ignored)")
	cmd.Flags().String("holder", "", "filter by holder substring")
	cmd.Flags().String("run", "", "filter by run ID")
	cmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	indexCmd.PersistentFlags().String("index-db", "", "SQLite manifest database")
	indexCmd.PersistentFlags().Int("max-results", 50, "default number of query results")

	addFilterFlags(indexQueryCmd)
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(indexExportCmd)
	indexExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	indexExportCmd.Flags().String("output", "", "write to this file instead of stdout")

	indexCmd.AddCommand(indexQueryCmd)
	indexCmd.AddCommand(indexExportCmd)

	rootCmd.AddCommand(indexCmd)
}
