package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/muesli/termenv"

	"github.com/lox/trashsim/internal/config"
	"github.com/lox/trashsim/internal/deck"
	"github.com/lox/trashsim/internal/game"
	"github.com/lox/trashsim/internal/report"
	"github.com/lox/trashsim/internal/rules"
	"github.com/lox/trashsim/internal/simulator"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Runs     int              `short:"n" help:"Number of independent simulations to run"`
	Out      string           `short:"o" help:"Write results as JSON to this file"`
	Seed     int64            `default:"0" help:"RNG seed (0 for random)"`
	Workers  int              `short:"w" default:"${workers}" help:"Parallel workers (env TRASHSIM_WORKERS)"`
	Rules    string           `default:"${rules_file}" help:"HCL file of rule variants (env TRASHSIM_RULES_FILE)"`
	Variant  string           `default:"${variant}" help:"Variant from --rules; the first one when empty (env TRASHSIM_VARIANT)"`
	Deck     string           `help:"Replay one deck in order instead of a batch, e.g. 'As2s3s...'"`
	NoColor  bool             `help:"Disable coloured output"`
	Debug    bool             `short:"d" help:"Debug logging"`
	LogLevel string           `default:"${log_level}" enum:"debug,info,warn,error" help:"Log level (env TRASHSIM_LOG_LEVEL)"`
}

// Validate is called by kong after parsing.
func (c *CLI) Validate() error {
	if c.Deck == "" && c.Runs <= 0 {
		return errors.New("--runs must be a positive integer")
	}
	return nil
}

func main() {
	env, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("trashsim"),
		kong.Description("Monte Carlo estimate of a perfect first round of Trash"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		env.Vars(),
		kong.Vars{
			"version": version,
		},
	)

	err = cli.Run(os.Stdout, os.Stderr, quartz.NewReal())
	ctx.FatalIfErrorf(err)
}

// Run executes the parsed command, writing the summary to stdout and logs to
// stderr.
func (c *CLI) Run(stdout, stderr io.Writer, clock quartz.Clock) error {
	profile := termenv.NewOutput(stdout).EnvColorProfile()
	if c.NoColor {
		profile = termenv.Ascii
	}

	logger, err := c.newLogger(stderr, profile)
	if err != nil {
		return err
	}

	cfg, err := c.loadRules()
	if err != nil {
		return err
	}
	logger.Debug("rules loaded", "variant", cfg.Name, "rules", cfg.String())

	theme := report.NewTheme(stdout, profile)
	if c.Deck != "" {
		return c.replay(stdout, theme, cfg)
	}

	sim := simulator.New(simulator.Config{
		Runs:    c.Runs,
		Rules:   cfg,
		Seed:    c.Seed,
		Workers: c.Workers,
		Logger:  logger,
		Clock:   clock,
	})
	res, err := sim.Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	logger.Info("batch complete", "runs", res.Runs, "seed", res.Seed, "workers", res.Workers)

	fmt.Fprint(stdout, report.FormatSummary(theme, res.BatchResult, res.Elapsed))

	if c.Out == "" {
		return nil
	}
	payload, err := report.NewPayload(cfg.Name, res.BatchResult, clock)
	if err != nil {
		return err
	}
	if err := payload.WriteJSON(c.Out); err != nil {
		return err
	}
	logger.Info("results written", "path", c.Out, "runId", payload.RunID)
	return nil
}

func (c *CLI) newLogger(w io.Writer, profile termenv.Profile) (*log.Logger, error) {
	level := log.DebugLevel
	if !c.Debug {
		var err error
		if level, err = log.ParseLevel(c.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
	}

	logger := log.NewWithOptions(w, log.Options{Level: level, Prefix: "trashsim"})
	logger.SetColorProfile(profile)
	return logger, nil
}

func (c *CLI) loadRules() (rules.Config, error) {
	if c.Rules == "" {
		if c.Variant != "" && c.Variant != rules.DefaultName {
			return rules.Config{}, fmt.Errorf("variant %q needs a --rules file", c.Variant)
		}
		return rules.Default(), nil
	}

	variants, err := rules.LoadFile(c.Rules)
	if err != nil {
		return rules.Config{}, err
	}
	return variants.Lookup(c.Variant)
}

func (c *CLI) replay(w io.Writer, theme report.Theme, cfg rules.Config) error {
	cards, err := deck.ParseCards(c.Deck)
	if err != nil {
		return fmt.Errorf("parse deck: %w", err)
	}
	result, err := game.SimulateFromDeck(cards, cfg)
	if err != nil {
		return err
	}
	fmt.Fprint(w, report.FormatTrial(theme, result, cfg.BoardSize))
	return nil
}
