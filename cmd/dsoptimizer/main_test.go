// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/dsoptimizer/pkg/ux"
	"github.com/AleutianAI/dsoptimizer/services/optimizer/config"
)

// execute runs the CLI in machine personality and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("OTEL_TRACES_EXPORTER", "none")
	t.Setenv("OTEL_METRICS_EXPORTER", "none")
	t.Cleanup(func() { ux.SetPersonality(ux.DefaultPersonality()) })

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--personality", "machine", "--log-level", "error"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "results.csv")
	reportPath := filepath.Join(dir, "report.txt")

	out, _, err := execute(t, "run", "--no-history",
		"--type", "int", "--size", "200", "--seed", "7",
		"--search", "60", "--insert", "30", "--delete", "10",
		"--csv", csvPath, "--report", reportPath,
		"--compare", "BST,HashTable")
	require.NoError(t, err)

	assert.Contains(t, out, "RECOMMENDED DATA STRUCTURE")
	assert.Contains(t, out, "HashTable")
	assert.Contains(t, out, "OK: Results exported to "+csvPath)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Structure,"), "csv header: %q", string(data))

	report, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Contains(t, string(report), "RECOMMENDED DATA STRUCTURE")
}

func TestRunCommand_Strings(t *testing.T) {
	dir := t.TempDir()
	words := filepath.Join(dir, "words.txt")
	require.NoError(t, os.WriteFile(words, []byte("apple apply ape banana band bandana can candy"), 0o644))

	out, _, err := execute(t, "run", "--no-history", "--type", "string", "--file", words, "--prefix-search")
	require.NoError(t, err)
	assert.Contains(t, out, "Trie")
	assert.Contains(t, out, "RECOMMENDED DATA STRUCTURE")
}

func TestRunCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad mix", []string{"run", "--no-history", "--search", "50", "--insert", "50", "--delete", "50"}},
		{"bad type", []string{"run", "--no-history", "--type", "complex"}},
		{"missing file", []string{"run", "--no-history", "--file", "/nonexistent/data.txt"}},
		{"negative weight", []string{"run", "--no-history", "--time-weight", "-1"}},
		{"extra args", []string{"run", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestImportCommand(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "results.csv")
	_, _, err := execute(t, "run", "--no-history", "--size", "100", "--seed", "3", "--csv", csvPath)
	require.NoError(t, err)

	out, _, err := execute(t, "import", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Rank\tStructure")
	assert.Contains(t, out, "RECOMMENDED DATA STRUCTURE")
}

func TestImportCommand_MissingFile(t *testing.T) {
	_, _, err := execute(t, "import", filepath.Join(t.TempDir(), "nope.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHistoryLifecycle(t *testing.T) {
	history := t.TempDir()

	_, _, err := execute(t, "--history-dir", history, "run", "--size", "100", "--seed", "1")
	require.NoError(t, err)

	out, _, err := execute(t, "--history-dir", history, "history", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2, "header plus one run: %q", out)
	id := strings.Split(lines[1], "\t")[0]
	assert.Contains(t, lines[1], "synthetic")

	out, _, err = execute(t, "--history-dir", history, "history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "RECOMMENDED DATA STRUCTURE")

	_, _, err = execute(t, "--history-dir", history, "history", "delete", id)
	require.NoError(t, err)

	_, _, err = execute(t, "--history-dir", history, "history", "show", id)
	assert.Error(t, err)
}

func TestHistory_Disabled(t *testing.T) {
	_, _, err := execute(t, "--no-history", "history", "list")
	assert.Error(t, err)
}

func TestSuggestCommand(t *testing.T) {
	out, _, err := execute(t, "--no-history", "suggest", "--speed-critical")
	require.NoError(t, err)
	assert.Contains(t, out, "0.70\t0.20\t0.10")

	out, _, err = execute(t, "--no-history", "suggest")
	require.NoError(t, err)
	assert.Contains(t, out, "0.40\t0.30\t0.30")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dsoptimizer.yaml")

	_, _, err := execute(t, "--no-history", "config", "init", path)
	require.NoError(t, err)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Mix, cfg.Mix)

	_, _, err = execute(t, "--no-history", "config", "init", path)
	assert.ErrorIs(t, err, os.ErrExist)

	_, _, err = execute(t, "--no-history", "config", "init", "--force", path)
	assert.NoError(t, err)
}

func TestConfigFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_type: double\ndata_size: 50\n"), 0o644))

	out, _, err := execute(t, "--no-history", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "data_type: double")
	assert.Contains(t, out, "data_size: 50")

	_, _, err = execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "suggest")
	assert.Error(t, err)
}
