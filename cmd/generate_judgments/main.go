// Command generate_judgments produces a synthetic pairwise tournament with
// known ground-truth qualities, for exercising the estimation pipeline and
// validating parameter recovery.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-podium/internal/testutils"
)

func main() {
	var (
		scenarioPath    = flag.String("scenario", "", "Optional YAML scenario file (default: built-in scenario)")
		judgments       = flag.Int("judgments", 0, "Override the scenario's judgment count")
		seed            = flag.Int64("seed", 0, "Override the scenario's seed (0 keeps it; -1 uses the clock)")
		outputPath      = flag.String("output", "testdata/judgments.json", "Judgments output path")
		calibrationPath = flag.String("calibration", "testdata/calibration.json", "Calibration output path")
	)
	flag.Parse()

	scenario := testutils.DefaultScenario()
	if *scenarioPath != "" {
		data, err := os.ReadFile(*scenarioPath)
		if err != nil {
			log.Fatalf("read scenario: %v", err)
		}
		if err := yaml.Unmarshal(data, &scenario); err != nil {
			log.Fatalf("parse scenario: %v", err)
		}
	}
	if *judgments > 0 {
		scenario.Judgments = *judgments
	}
	switch {
	case *seed > 0:
		scenario.Seed = *seed
	case *seed < 0:
		scenario.Seed = time.Now().UnixNano()
	}

	if err := validator.New().Struct(scenario); err != nil {
		log.Fatalf("invalid scenario: %v", err)
	}

	generated := testutils.GenerateJudgments(scenario)
	if err := os.WriteFile(*outputPath, testutils.JudgmentsJSON(generated), 0o600); err != nil {
		log.Fatalf("write judgments: %v", err)
	}
	if err := os.WriteFile(*calibrationPath, testutils.CalibrationJSON(scenario), 0o600); err != nil {
		log.Fatalf("write calibration: %v", err)
	}

	fmt.Printf("Generated synthetic tournament %q:\n", scenario.Name)
	fmt.Printf("- judgments: %d -> %s\n", len(generated), *outputPath)
	fmt.Printf("- judges: %d -> %s\n", len(scenario.Judges), *calibrationPath)
	fmt.Printf("- ideas: %d (seed %d)\n", len(scenario.Ideas), scenario.Seed)
}
