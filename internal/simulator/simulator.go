package simulator

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/lox/trashsim/internal/deck"
	"github.com/lox/trashsim/internal/game"
	"github.com/lox/trashsim/internal/randutil"
	"github.com/lox/trashsim/internal/rules"
	"github.com/lox/trashsim/internal/statistics"
)

// BatchResult is the aggregate of a batch. Nil pointers mean the figure is
// undefined for the batch (no successes, no wins, or no trials).
type BatchResult struct {
	Runs                   int                  `json:"runs"`
	Successes              int                  `json:"successes"`
	Probability            float64              `json:"probability"`
	ExpectedGamesToSuccess *float64             `json:"expectedGamesToSuccess"`
	AverageRoundsToWin     *float64             `json:"averageRoundsToWin"`
	ConfidenceInterval95   *statistics.Interval `json:"confidenceInterval95"`
}

// FromTally derives a BatchResult from accumulated counters.
func FromTally(t statistics.Tally) BatchResult {
	if t.Runs <= 0 {
		return BatchResult{}
	}

	result := BatchResult{
		Runs:        t.Runs,
		Successes:   t.Successes,
		Probability: t.Probability(),
	}
	if e, ok := t.ExpectedGamesToSuccess(); ok {
		result.ExpectedGamesToSuccess = &e
	}
	if avg, ok := t.AverageRoundsToWin(); ok {
		result.AverageRoundsToWin = &avg
	}
	if ci, ok := t.ConfidenceInterval95(); ok {
		result.ConfidenceInterval95 = &ci
	}
	return result
}

// RunBatch plays runs independent trials on src, one after another. A
// non-positive run count yields the zero BatchResult without playing. A nil
// src uses a freshly seeded generator.
func RunBatch(runs int, cfg rules.Config, src randutil.Source) (BatchResult, error) {
	if runs <= 0 {
		return BatchResult{}, nil
	}
	if src == nil {
		src = randutil.Default()
	}

	tally, err := runTrials(runs, cfg, src)
	if err != nil {
		return BatchResult{}, err
	}
	return FromTally(tally), nil
}

// runTrials is the hot loop. The deck and round buffers are allocated once;
// every trial refills the deck in canonical order and reshuffles it.
func runTrials(n int, cfg rules.Config, src randutil.Source) (statistics.Tally, error) {
	var tally statistics.Tally
	if err := cfg.Validate(); err != nil {
		return tally, err
	}

	round := game.NewRound(cfg)
	cards := make([]deck.Card, deck.Size)
	for i := 0; i < n; i++ {
		deck.Fill(cards)
		deck.Shuffle(cards, src)
		if err := round.Deal(cards); err != nil {
			return tally, fmt.Errorf("trial %d: %w", i+1, err)
		}
		tally.Add(round.Play())
	}
	return tally, nil
}

// Config holds configuration for running a batch
type Config struct {
	Runs  int
	Rules rules.Config

	// Source, when set, drives every trial sequentially. Sources are not
	// safe for concurrent use, so Workers is ignored.
	Source randutil.Source

	Seed    int64 // 0 draws a random seed, reported in the Report
	Workers int   // goroutines used when Source is nil

	Logger *log.Logger
	Clock  quartz.Clock
}

// Report is a BatchResult plus how it was produced.
type Report struct {
	BatchResult
	Tally   statistics.Tally
	Seed    int64
	Workers int
	Elapsed time.Duration
}

// Simulator runs batches of first-round trials
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Simulator{config: config}
}

// Run executes the batch and returns the aggregate.
func (s *Simulator) Run() (*Report, error) {
	cfg := s.config
	start := cfg.Clock.Now()

	if cfg.Runs <= 0 {
		cfg.Logger.Warn("no trials requested", "runs", cfg.Runs)
		return &Report{Workers: 0}, nil
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	report := &Report{Workers: 1}
	var (
		tally statistics.Tally
		err   error
	)

	switch {
	case cfg.Source != nil:
		cfg.Logger.Debug("starting batch", "runs", cfg.Runs, "rules", cfg.Rules.Name, "source", "caller")
		tally, err = runTrials(cfg.Runs, cfg.Rules, cfg.Source)
	default:
		seed := cfg.Seed
		if seed == 0 {
			if seed, err = randutil.NewSeed(); err != nil {
				return nil, err
			}
		}
		report.Seed = seed
		report.Workers = min(cfg.Workers, cfg.Runs)

		cfg.Logger.Debug("starting batch", "runs", cfg.Runs, "rules", cfg.Rules.Name, "seed", seed, "workers", report.Workers)
		if report.Workers == 1 {
			tally, err = runTrials(cfg.Runs, cfg.Rules, randutil.New(seed))
		} else {
			tally, err = s.runParallel(report.Workers, seed)
		}
	}
	if err != nil {
		return nil, err
	}

	if err := tally.Validate(); err != nil {
		return nil, fmt.Errorf("tally validation failed: %w", err)
	}

	report.BatchResult = FromTally(tally)
	report.Tally = tally
	report.Elapsed = cfg.Clock.Since(start)

	cfg.Logger.Debug("batch complete",
		"runs", tally.Runs,
		"successes", tally.Successes,
		"wins", tally.Wins,
		"elapsed", report.Elapsed)
	return report, nil
}

// runParallel splits the batch across workers, each with its own generator
// seeded from seed, and adds their tallies together.
func (s *Simulator) runParallel(workers int, seed int64) (statistics.Tally, error) {
	runs := s.config.Runs
	perWorker := runs / workers
	remainder := runs % workers

	seeds := randutil.New(seed)
	tallies := make([]statistics.Tally, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		workerSeed := seeds.Int64()

		g.Go(func() error {
			tally, err := runTrials(n, s.config.Rules, randutil.New(workerSeed))
			if err != nil {
				return fmt.Errorf("worker %d: %w", w, err)
			}
			tallies[w] = tally
			s.config.Logger.Debug("worker finished", "worker", w, "trials", n, "successes", tally.Successes)
			return nil
		})
	}

	var total statistics.Tally
	if err := g.Wait(); err != nil {
		return total, err
	}
	for _, t := range tallies {
		total.Merge(t)
	}
	return total, nil
}

// RunSimulation is a convenience function for running a seeded batch
func RunSimulation(runs int, cfg rules.Config, seed int64, workers int, logger *log.Logger) (*Report, error) {
	return New(Config{
		Runs:    runs,
		Rules:   cfg,
		Seed:    seed,
		Workers: workers,
		Logger:  logger,
	}).Run()
}
