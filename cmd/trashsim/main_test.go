package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/trashsim/internal/config"
)

func parse(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("trashsim"),
		kong.Exit(func(int) {}),
		config.Env{LogLevel: "warn", Workers: 2}.Vars(),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)

	_, err = parser.Parse(args)
	return &cli, err
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cli, err := parse(t, args...)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	err = cli.Run(&stdout, &stderr, quartz.NewMock(t))
	return stdout.String(), stderr.String(), err
}

const perfectDeck = "2s3s4s5s6s7s8s9sTsQs As Kd"

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"runs", []string{"--runs", "10"}, false},
		{"short runs", []string{"-n", "10", "-o", "out.json"}, false},
		{"missing runs", []string{}, true},
		{"zero runs", []string{"--runs", "0"}, true},
		{"negative runs", []string{"--runs", "-3"}, true},
		{"not a number", []string{"--runs", "lots"}, true},
		{"deck without runs", []string{"--deck", perfectDeck}, false},
		{"unknown flag", []string{"--runs", "1", "--turbo"}, true},
		{"bad log level", []string{"--runs", "1", "--log-level", "chatty"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	cli, err := parse(t, "--runs", "5")
	require.NoError(t, err)

	assert.Equal(t, 2, cli.Workers)
	assert.Equal(t, "warn", cli.LogLevel)
	assert.Empty(t, cli.Rules)
	assert.Empty(t, cli.Variant)
	assert.Zero(t, cli.Seed)
}

func TestRun_Summary(t *testing.T) {
	stdout, _, err := run(t, "--runs", "200", "--seed", "9", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Runs: 200\n")
	assert.Contains(t, stdout, "First-turn perfect wins: ")
	assert.Contains(t, stdout, "Probability: ")
	assert.Contains(t, stdout, "95% confidence interval: [")
	assert.Contains(t, stdout, "Runtime: 0.00s\n")
	assert.NotContains(t, stdout, "\x1b[")

	again, _, err := run(t, "--runs", "200", "--seed", "9", "--no-color")
	require.NoError(t, err)
	assert.Equal(t, stdout, again)
}

func TestRun_WritesJSON(t *testing.T) {
	out := filepath.Join(t.TempDir(), "results.json")
	_, _, err := run(t, "--runs", "50", "--seed", "3", "--out", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Equal(t, "jack-wild-discard", payload["rules"])
	assert.Equal(t, 50.0, payload["runs"])
	assert.NotEmpty(t, payload["runId"])
	assert.NotEmpty(t, payload["generatedAt"])
}

func TestRun_Deck(t *testing.T) {
	stdout, _, err := run(t, "--deck", perfectDeck, "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "First-turn perfect: yes\nBoard completed: yes\nSlots filled: 10/10\nDraws taken: 1\n", stdout)
}

func TestRun_DeckTenNotation(t *testing.T) {
	stdout, _, err := run(t, "--deck", "2s 3s 4s 5s 6s 7s 8s 9s 10s Qs As Kd", "--no-color")
	require.NoError(t, err)

	assert.Contains(t, stdout, "First-turn perfect: yes\n")
}

func TestRun_DeckErrors(t *testing.T) {
	_, _, err := run(t, "--deck", "2s3s4s")
	assert.Error(t, err, "a deck shorter than the deal is misconfigured")

	_, _, err = run(t, "--deck", "2s3x")
	assert.Error(t, err)
}

func TestRun_RulesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
rules "short" {
  board_size = 5
}

rules "no-discard" {
  use_initial_discard = false
  allow_discard_draw  = false
}
`), 0o644))

	out := filepath.Join(t.TempDir(), "short.json")
	_, stderr, err := run(t, "--runs", "20", "--rules", path, "--variant", "short", "--out", out, "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "rules loaded")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rules": "short"`)

	_, _, err = run(t, "--runs", "20", "--rules", path, "--variant", "missing")
	assert.Error(t, err)
}

func TestRun_VariantWithoutRules(t *testing.T) {
	_, _, err := run(t, "--runs", "1", "--variant", "ace-high")
	assert.Error(t, err)

	_, _, err = run(t, "--runs", "1", "--variant", "jack-wild-discard")
	assert.NoError(t, err)
}
