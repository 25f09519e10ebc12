package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ahrav/go-podium/infrastructure/estimator"
	"github.com/ahrav/go-podium/infrastructure/ingest"
	"github.com/ahrav/go-podium/internal/domain"
	"github.com/ahrav/go-podium/internal/ports"
)

// Pipeline wires the estimation stages together. It is stateless across
// runs: every Run allocates fresh intermediate state, so a single Pipeline
// may serve concurrent runs.
type Pipeline struct {
	config  Config
	fitter  ports.Fitter
	boot    ports.UncertaintyEstimator
	metrics ports.MetricsCollector
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithMetrics attaches a metrics collector. Without it the pipeline simply
// skips metric recording.
func WithMetrics(m ports.MetricsCollector) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// WithFitter overrides the default MM fitter, mainly for tests.
func WithFitter(f ports.Fitter) Option {
	return func(p *Pipeline) { p.fitter = f }
}

// NewPipeline validates the configuration and constructs the estimation
// pipeline with an MM fitter and a bootstrap uncertainty estimator sharing
// the same iteration budget and lambda.
func NewPipeline(config Config, opts ...Option) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	mmConfig := estimator.DefaultMMConfig()
	mmConfig.Iterations = config.Iterations
	mmConfig.PiLambda = config.PiLambda
	fitter, err := estimator.NewMMFitter("mm_fit", mmConfig)
	if err != nil {
		return nil, fmt.Errorf("build fitter: %w", err)
	}

	p := &Pipeline{config: config, fitter: fitter}
	for _, opt := range opts {
		opt(p)
	}

	boot, err := estimator.NewBootstrapper("bootstrap", estimator.BootstrapConfig{
		Samples:     config.Bootstrap,
		Seed:        config.Seed,
		Concurrency: config.Concurrency,
	}, p.fitter)
	if err != nil {
		return nil, fmt.Errorf("build bootstrapper: %w", err)
	}
	p.boot = boot

	return p, nil
}

// RunResult bundles a report with the non-fatal diagnostics accumulated
// while producing it. Errors are per-record normalization failures;
// Warnings are defaulted-rho notices. Neither affects exit status.
type RunResult struct {
	Report   *domain.Report
	Errors   []string
	Warnings []string
}

// inputs is the normalized view of one run's raw payloads.
type inputs struct {
	judgments []domain.Judgment
	profile   domain.CalibrationProfile
	stats     domain.MatchStats
	total     int
	errors    []string
	warnings  []string
}

// normalize canonicalizes both payloads and derives match statistics.
// Per-record and per-calibration-entry failures accumulate as strings;
// only structurally wrong payloads return an error.
func (p *Pipeline) normalize(judgmentsRaw, calibrationRaw []byte) (inputs, error) {
	judgments, judgmentErrs, total, err := ingest.NormalizeJudgments(judgmentsRaw)
	if err != nil {
		return inputs{}, err
	}
	profile, calibrationErrs, err := ingest.ParseCalibration(calibrationRaw)
	if err != nil {
		return inputs{}, err
	}

	in := inputs{
		judgments: judgments,
		profile:   profile,
		stats:     domain.BuildMatchStats(judgments),
		total:     total,
		errors:    append(judgmentErrs, calibrationErrs...),
	}

	for _, judge := range in.stats.JudgeIDs {
		if in.profile.Resolve(judge).UsedDefault {
			in.warnings = append(in.warnings, fmt.Sprintf(
				"judge %q missing calibration rho; using default rho=%.1f", judge, domain.DefaultRho))
		}
	}
	return in, nil
}

// Validate short-circuits before any fitting and reports input accounting
// plus every accumulated normalization error.
func (p *Pipeline) Validate(ctx context.Context, judgmentsRaw, calibrationRaw []byte) (*domain.ValidationReport, []string, error) {
	_, span := p.startSpan(ctx, "Pipeline.Validate")
	defer span.End()

	in, err := p.normalize(judgmentsRaw, calibrationRaw)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	errs := in.errors
	if errs == nil {
		errs = []string{}
	}
	return &domain.ValidationReport{
		Valid:  len(in.errors) == 0,
		Errors: errs,
		Metadata: domain.ValidationMetadata{
			TotalJudgments: in.total,
			ValidJudgments: len(in.judgments),
			UniqueIdeas:    len(in.stats.IdeaIDs),
			UniqueJudges:   len(in.stats.JudgeIDs),
		},
	}, in.warnings, nil
}

// Run executes the full pipeline: normalize, fit, bootstrap, rank, and
// assemble the report. Normalization errors are not fatal; an empty usable
// judgment set degenerates gracefully to all-zero results.
func (p *Pipeline) Run(ctx context.Context, judgmentsRaw, calibrationRaw []byte) (*RunResult, error) {
	ctx, span := p.startSpan(ctx, "Pipeline.Run")
	defer span.End()

	started := time.Now()

	in, err := p.normalize(judgmentsRaw, calibrationRaw)
	if err != nil {
		span.RecordError(err)
		p.count("estimation_runs_total", map[string]string{"status": "failed"})
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("judgments.total", in.total),
		attribute.Int("judgments.valid", len(in.judgments)),
		attribute.Int("ideas.unique", len(in.stats.IdeaIDs)),
		attribute.Int("judges.unique", len(in.stats.JudgeIDs)),
	)

	span.AddEvent("fit_started")
	result := p.fitter.Fit(ctx, in.judgments, in.stats.IdeaIDs, in.stats.JudgeIDs, in.profile)
	span.AddEvent("fit_completed", trace.WithAttributes(
		attribute.Int("iterations_used", result.IterationsUsed),
		attribute.Bool("converged", result.Converged),
	))

	span.AddEvent("bootstrap_started")
	bootstrapStats := p.boot.EstimateUncertainty(ctx, in.judgments, in.stats.IdeaIDs, in.stats.JudgeIDs, in.profile)
	span.AddEvent("bootstrap_completed")

	rankings, insufficient := estimator.BuildRankings(result, bootstrapStats, in.stats, p.config.MinMatches)
	diagnostics := estimator.BuildJudgeDiagnostics(in.judgments, in.stats, in.profile, result.Pi)

	elapsed := time.Since(started)
	report := &domain.Report{
		Metadata: domain.Metadata{
			RunID:            uuid.NewString(),
			TotalJudgments:   in.total,
			ValidJudgments:   len(in.judgments),
			UniqueIdeas:      len(in.stats.IdeaIDs),
			UniqueJudges:     len(in.stats.JudgeIDs),
			IterationsUsed:   result.IterationsUsed,
			Converged:        result.Converged,
			BootstrapSamples: p.config.Bootstrap,
			PiLambda:         p.config.PiLambda,
			MinMatches:       p.config.MinMatches,
			ElapsedMs:        elapsed.Milliseconds(),
		},
		Rankings:            rankings,
		InsufficientMatches: insufficient,
		JudgeDiagnostics:    diagnostics,
		Timestamp:           started.UTC(),
	}

	p.count("estimation_runs_total", map[string]string{"status": "ok"})
	if p.metrics != nil {
		p.metrics.RecordLatency("estimation_run", elapsed, nil)
		p.metrics.RecordHistogram("estimation_iterations", float64(result.IterationsUsed), nil)
		p.metrics.RecordGauge("estimation_unique_ideas", float64(len(in.stats.IdeaIDs)), nil)
	}

	return &RunResult{Report: report, Errors: in.errors, Warnings: in.warnings}, nil
}

// startSpan creates an OpenTelemetry span with common pipeline attributes.
func (p *Pipeline) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	tracer := otel.Tracer("estimation-pipeline")
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(
		attribute.Int("config.iterations", p.config.Iterations),
		attribute.Int("config.bootstrap", p.config.Bootstrap),
		attribute.Float64("config.pi_lambda", p.config.PiLambda),
	)
	return ctx, span
}

func (p *Pipeline) count(metric string, labels map[string]string) {
	if p.metrics != nil {
		p.metrics.RecordCounter(metric, 1, labels)
	}
}
