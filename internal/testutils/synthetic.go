// Package testutils provides test data generators for the estimation
// engine. These components are intended for internal use within the
// project's test suites and the synthetic-data command; they are not part
// of the public API.
package testutils

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"github.com/ahrav/go-podium/internal/domain"
)

// ScenarioIdea is one idea in a synthetic tournament with its ground-truth
// quality.
type ScenarioIdea struct {
	ID    string  `yaml:"id" json:"id" validate:"required"`
	Theta float64 `yaml:"theta" json:"theta"`
}

// ScenarioJudge is one judge in a synthetic tournament with its true
// reliability and position bias.
type ScenarioJudge struct {
	ID  string  `yaml:"id" json:"id" validate:"required"`
	Rho float64 `yaml:"rho" json:"rho" validate:"min=0,max=1"`
	Pi  float64 `yaml:"pi" json:"pi"`
}

// Scenario describes a synthetic tournament: ideas with known quality,
// judges with known reliability and bias, and a judgment volume. Generated
// data follows the same probabilistic model the estimator fits, so fitted
// parameters should recover the ground truth up to sampling noise.
type Scenario struct {
	Name      string          `yaml:"name" json:"name"`
	Seed      int64           `yaml:"seed" json:"seed"`
	Judgments int             `yaml:"judgments" json:"judgments" validate:"min=1"`
	Ideas     []ScenarioIdea  `yaml:"ideas" json:"ideas" validate:"required,min=2,dive"`
	Judges    []ScenarioJudge `yaml:"judges" json:"judges" validate:"required,min=1,dive"`
}

// DefaultScenario returns a small tournament with well-separated idea
// qualities and mixed judge reliabilities.
func DefaultScenario() Scenario {
	return Scenario{
		Name:      "default",
		Seed:      42,
		Judgments: 600,
		Ideas: []ScenarioIdea{
			{ID: "idea-alpha", Theta: 1.5},
			{ID: "idea-bravo", Theta: 0.8},
			{ID: "idea-charlie", Theta: 0.2},
			{ID: "idea-delta", Theta: -0.3},
			{ID: "idea-echo", Theta: -0.9},
			{ID: "idea-foxtrot", Theta: -1.3},
		},
		Judges: []ScenarioJudge{
			{ID: "judge-strict", Rho: 0.9, Pi: 0.1},
			{ID: "judge-lenient", Rho: 0.7, Pi: -0.2},
			{ID: "judge-noisy", Rho: 0.4, Pi: 0.0},
		},
	}
}

// GenerateJudgments simulates a tournament under the engine's model:
// for each judgment a distinct idea pair and a judge are drawn uniformly,
// a slot assignment is drawn, and the winner is sampled with probability
// sigmoid(rho*(theta_x - theta_y) + pi*s). Identical seeds produce
// identical judgment lists.
func GenerateJudgments(s Scenario) []domain.Judgment {
	rng := rand.New(rand.NewSource(s.Seed))
	judgments := make([]domain.Judgment, 0, s.Judgments)

	for range s.Judgments {
		xi := rng.Intn(len(s.Ideas))
		yi := rng.Intn(len(s.Ideas) - 1)
		if yi >= xi {
			yi++
		}
		x, y := s.Ideas[xi], s.Ideas[yi]
		judge := s.Judges[rng.Intn(len(s.Judges))]

		// s = +1 when x occupies the first slot.
		sign := domain.PosFirst
		if rng.Intn(2) == 1 {
			sign = domain.PosSecond
		}

		p := 1.0 / (1.0 + math.Exp(-(judge.Rho*(x.Theta-y.Theta) + judge.Pi*float64(sign))))
		j := domain.Judgment{Judge: judge.ID}
		if rng.Float64() < p {
			j.Winner, j.Loser, j.Pos = x.ID, y.ID, sign
		} else {
			j.Winner, j.Loser, j.Pos = y.ID, x.ID, -sign
		}
		judgments = append(judgments, j)
	}

	return judgments
}

// JudgmentsJSON serializes judgments as the raw records the normalizer
// accepts, using the "model" field for the judge identifier.
func JudgmentsJSON(judgments []domain.Judgment) []byte {
	records := make([]map[string]any, len(judgments))
	for i, j := range judgments {
		records[i] = map[string]any{
			"winner":       j.Winner,
			"loser":        j.Loser,
			"model":        j.Judge,
			"pos":          int(j.Pos),
			"parse_status": "ok",
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		panic(fmt.Sprintf("marshal judgments: %v", err))
	}
	return data
}

// CalibrationJSON serializes the scenario's judge reliabilities as a
// calibration payload.
func CalibrationJSON(s Scenario) []byte {
	judges := make(map[string]map[string]float64, len(s.Judges))
	for _, judge := range s.Judges {
		judges[judge.ID] = map[string]float64{"rho": judge.Rho}
	}
	data, err := json.Marshal(map[string]any{"judges": judges})
	if err != nil {
		panic(fmt.Sprintf("marshal calibration: %v", err))
	}
	return data
}

// CalibrationProfile returns the scenario's judge reliabilities in the
// engine's internal shape.
func CalibrationProfile(s Scenario) domain.CalibrationProfile {
	profile := make(domain.CalibrationProfile, len(s.Judges))
	for _, judge := range s.Judges {
		profile[judge.ID] = judge.Rho
	}
	return profile
}
