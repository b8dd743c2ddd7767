// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/certsplit/internal/pdfdoc/pdfdoctest"
	"github.com/pdiddy/certsplit/pkg/types"
)

func TestPromptPlate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plate with newline", input: "ag 552 fa\n", want: "ag 552 fa"},
		{name: "enter processes all", input: "\n", want: ""},
		{name: "eof without newline", input: "AB123CD", want: "AB123CD"},
		{name: "closed stdin", input: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptPlate(strings.NewReader(tt.input), &out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, platePrompt, out.String())
		})
	}
}

func TestReportPath(t *testing.T) {
	assert.Equal(t, "", reportPath("", "/in/lote.pdf"))
	assert.Equal(t, filepath.Join("reports", "lote-marzo.xlsx"), reportPath("reports", "/in/lote-marzo.PDF"))
}

func TestSplitConfig_EnvironmentAndDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()
	viper.SetEnvPrefix("CERTSPLIT")
	viper.AutomaticEnv()
	t.Setenv("CERTSPLIT_OUT", "/srv/salidas")
	t.Setenv("CERTSPLIT_KEEP_GOING", "true")
	t.Setenv("CERTSPLIT_MAX_PAGINATION", "8")

	cfg := splitConfig()
	assert.Equal(t, "/srv/salidas", cfg.OutDir)
	assert.True(t, cfg.KeepGoing)
	assert.False(t, cfg.Disambiguate)
	assert.Equal(t, 8, cfg.MaxPagination)
	assert.Equal(t, types.DefaultLookahead, cfg.Lookahead, "unset knob falls back to default")
}

func TestCLI_SplitThenQueryIndex(t *testing.T) {
	t.Cleanup(viper.Reset)
	dir := t.TempDir()
	src := pdfdoctest.WriteFile(t, dir, "lote.pdf",
		"SEGURO DE AUTOMOTORES CERTIFICADO DE COBERTURA Hoja 1 de 2 MARCA: FORD PATENTE: AG 552 FA",
		"Hoja 2 de 2 Condiciones",
		"SEGURO DE AUTOMOTORES CERTIFICADO DE COBERTURA Hoja 1 de 1 MARCA: FIAT PATENTE: AB 123 CD",
	)
	out := filepath.Join(dir, "salidas")
	db := filepath.Join(dir, "index", "certsplit.db")
	xlsx := filepath.Join(dir, "run.xlsx")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetErr(nil) })

	rootCmd.SetArgs([]string{"split", src, "--out", out, "--no-prompt", "--index-db", db, "--report", xlsx})
	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, stdout.String(), "Total certificados exportados: 2")
	_, err := os.Stat(xlsx)
	assert.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(out, "*", "FORD", "*", "AG552FA", "poliza_AG552FA.json"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	stdout.Reset()
	rootCmd.SetArgs([]string{"index", "query", "--index-db", db, "--plate", "ab 123 cd"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stdout.String(), "AB123CD")
	assert.Contains(t, stdout.String(), "1 results")
}

func TestCLI_SplitMissingSource(t *testing.T) {
	t.Cleanup(viper.Reset)
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() { rootCmd.SetOut(nil); rootCmd.SetErr(nil) })

	rootCmd.SetArgs([]string{"split", filepath.Join(t.TempDir(), "missing.pdf"), "--no-prompt", "--index-db", "", "--report", ""})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
}
