// Package scenario runs the comparison engine across every active scenario in
// a configuration.
package scenario

import (
	"fmt"

	"github.com/iwvelando/rent-vs-buy/internal/comparison"
	"github.com/iwvelando/rent-vs-buy/internal/config"
	"go.uber.org/zap"
)

// Outcome holds the resolved inputs and the result of one scenario.
type Outcome struct {
	Name   string            `json:"name"`
	Inputs comparison.Inputs `json:"inputs"`
	Result comparison.Result `json:"result"`
}

// Run computes an Outcome for each active scenario, in configuration order.
// The first scenario that fails aborts the run; the error names it.
func Run(logger *zap.Logger, conf config.Configuration) ([]Outcome, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	engine := comparison.NewEngine(logger)
	var outcomes []Outcome
	for _, sc := range conf.Scenarios {
		if !sc.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", sc.Name),
				zap.String("op", "scenario.Run"),
			)
			continue
		}

		inputs := conf.Inputs(sc)
		result, err := engine.Compute(inputs)
		if err != nil {
			return outcomes, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}

		outcomes = append(outcomes, Outcome{Name: sc.Name, Inputs: inputs, Result: result})
	}

	logger.Debug("compared scenarios",
		zap.String("op", "scenario.Run"),
		zap.Int("scenarios", len(outcomes)),
	)

	return outcomes, nil
}

// Find returns the outcome with the given name, or nil.
func Find(outcomes []Outcome, name string) *Outcome {
	for i := range outcomes {
		if outcomes[i].Name == name {
			return &outcomes[i]
		}
	}
	return nil
}
