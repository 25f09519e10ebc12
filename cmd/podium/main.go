// Command podium estimates Bradley-Terry quality scores from pairwise
// judgments, with fixed judge reliability from a calibration file and
// regularized position-bias correction.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ahrav/go-podium/infrastructure/observability"
	"github.com/ahrav/go-podium/internal/application"
	"github.com/ahrav/go-podium/internal/domain"
)

// Exit codes: 1 for fatal I/O or structural failures, 2 for invalid options.
const (
	exitFatal = 1
	exitUsage = 2
)

func main() {
	var (
		input       = flag.String("input", "", "Path to judgments JSON file (required)")
		calibration = flag.String("calibration", "", "Path to judge calibration JSON file (required)")
		iterations  = flag.Int("iterations", -1, "MM iterations (default from config)")
		bootstrap   = flag.Int("bootstrap", -1, "Bootstrap samples for uncertainty (default from config)")
		piLambda    = flag.Float64("pi-lambda", -1, "L2 regularization strength for position bias (default from config)")
		minMatches  = flag.Int("min-matches", -1, "Minimum matches for ranked output (default from config)")
		seed        = flag.Int64("seed", -1, "Random seed (default from config)")
		output      = flag.String("output", "-", "Output file path (default: stdout)")
		pretty      = flag.Bool("pretty", false, "Pretty-print JSON")
		validate    = flag.Bool("validate", false, "Validate inputs and exit without fitting")
		summary     = flag.Bool("summary", false, "Print human-readable summary to stderr")
	)
	flag.Parse()

	if *input == "" || *calibration == "" {
		fmt.Fprintln(os.Stderr, "both --input and --calibration are required")
		os.Exit(exitUsage)
	}

	cfg, err := application.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}
	applyFlagOverrides(&cfg, *iterations, *bootstrap, *piLambda, *minMatches, *seed)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	calibrationRaw, err := os.ReadFile(*calibration)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(os.Stderr, "calibration weights required: run the calibration step first")
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(exitFatal)
	}
	judgmentsRaw, err := os.ReadFile(*input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}

	metrics := observability.NewPrometheusMetrics(prometheus.DefaultRegisterer)
	pipeline, err := application.NewPipeline(cfg, application.WithMetrics(metrics))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	ctx := context.Background()

	if *validate {
		report, warnings, err := pipeline.Validate(ctx, judgmentsRaw, calibrationRaw)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitFatal)
		}
		printWarnings(warnings)
		if *summary {
			fmt.Fprintln(os.Stderr, validationSummary(report))
		}
		if err := writeOutput(report, *pretty, *output); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitFatal)
		}
		return
	}

	result, err := pipeline.Run(ctx, judgmentsRaw, calibrationRaw)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}
	printWarnings(result.Warnings)
	if *summary {
		fmt.Fprintln(os.Stderr, reportSummary(result.Report))
	}
	if err := writeOutput(result.Report, *pretty, *output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFatal)
	}
}

// applyFlagOverrides layers explicitly provided flags over the loaded
// configuration. Negative sentinels mean "not set" for numeric flags whose
// valid domain is non-negative.
func applyFlagOverrides(cfg *application.Config, iterations, bootstrap int, piLambda float64, minMatches int, seed int64) {
	if iterations >= 0 {
		cfg.Iterations = iterations
	}
	if bootstrap >= 0 {
		cfg.Bootstrap = bootstrap
	}
	if piLambda >= 0 {
		cfg.PiLambda = piLambda
	}
	if minMatches >= 0 {
		cfg.MinMatches = minMatches
	}
	if seed >= 0 {
		cfg.Seed = seed
	}
}

func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
}

// writeOutput marshals the payload to stdout or the output file.
func writeOutput(payload any, pretty bool, output string) error {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(payload, "", "  ")
	} else {
		data, err = json.Marshal(payload)
	}
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	data = append(data, '\n')

	if output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(output, data, 0o600)
}

// reportSummary renders a concise human-readable run summary.
func reportSummary(report *domain.Report) string {
	s := fmt.Sprintf(
		"Bradley-Terry estimation summary\n"+
			"- total judgments: %d\n"+
			"- valid judgments: %d\n"+
			"- unique ideas: %d\n"+
			"- unique judges: %d\n"+
			"- converged: %t\n"+
			"- iterations used: %d\n"+
			"- bootstrap samples: %d",
		report.Metadata.TotalJudgments,
		report.Metadata.ValidJudgments,
		report.Metadata.UniqueIdeas,
		report.Metadata.UniqueJudges,
		report.Metadata.Converged,
		report.Metadata.IterationsUsed,
		report.Metadata.BootstrapSamples,
	)
	if len(report.Rankings) > 0 {
		top := report.Rankings[0]
		s += fmt.Sprintf("\n- top idea: %s (theta=%.4f)", top.ID, top.Theta)
	}
	return s
}

// validationSummary renders the validate-mode counts.
func validationSummary(report *domain.ValidationReport) string {
	return fmt.Sprintf(
		"Validation summary\n"+
			"- valid: %t\n"+
			"- errors: %d\n"+
			"- total judgments: %d\n"+
			"- valid judgments: %d\n"+
			"- unique ideas: %d\n"+
			"- unique judges: %d",
		report.Valid,
		len(report.Errors),
		report.Metadata.TotalJudgments,
		report.Metadata.ValidJudgments,
		report.Metadata.UniqueIdeas,
		report.Metadata.UniqueJudges,
	)
}
