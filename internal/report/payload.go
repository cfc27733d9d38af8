package report

import (
	"fmt"

	"github.com/coder/quartz"
	"github.com/google/uuid"

	"github.com/lox/trashsim/internal/fileutil"
	"github.com/lox/trashsim/internal/simulator"
	"github.com/lox/trashsim/internal/statistics"
)

// TimestampFormat is ISO-8601 in UTC with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Payload is the JSON document written by --out.
type Payload struct {
	Rules                  string               `json:"rules"`
	RunID                  uuid.UUID            `json:"runId"`
	Runs                   int                  `json:"runs"`
	Successes              int                  `json:"successes"`
	Probability            float64              `json:"probability"`
	ExpectedGamesToSuccess *float64             `json:"expectedGamesToSuccess"`
	AverageRoundsToWin     *float64             `json:"averageRoundsToWin"`
	ConfidenceInterval95   *statistics.Interval `json:"confidenceInterval95"`
	GeneratedAt            string               `json:"generatedAt"`
}

// NewPayload stamps result with a fresh run ID and the clock's current time.
func NewPayload(rulesName string, result simulator.BatchResult, clock quartz.Clock) (Payload, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Payload{}, fmt.Errorf("generate run id: %w", err)
	}

	return Payload{
		Rules:                  rulesName,
		RunID:                  id,
		Runs:                   result.Runs,
		Successes:              result.Successes,
		Probability:            result.Probability,
		ExpectedGamesToSuccess: result.ExpectedGamesToSuccess,
		AverageRoundsToWin:     result.AverageRoundsToWin,
		ConfidenceInterval95:   result.ConfidenceInterval95,
		GeneratedAt:            clock.Now().UTC().Format(TimestampFormat),
	}, nil
}

// WriteJSON writes the payload to filename atomically.
func (p Payload) WriteJSON(filename string) error {
	if err := fileutil.WriteJSON(filename, p, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
