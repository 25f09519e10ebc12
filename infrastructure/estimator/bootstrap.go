package estimator

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-podium/internal/domain"
	"github.com/ahrav/go-podium/internal/ports"
)

var _ ports.UncertaintyEstimator = (*Bootstrapper)(nil)

// Bootstrapper estimates the sampling variability of fitted theta values by
// resampling judgments with replacement and refitting each resample.
//
// Resamples run on an errgroup worker pool. Determinism holds regardless of
// scheduling: the master RNG is seeded once and draws one sub-seed per
// resample up front, each worker owns its RNG and fitter state, and draws
// land in a slot indexed by resample number. Given the same seed, judgments,
// and fitter configuration the output is bit-reproducible.
type Bootstrapper struct {
	// name is the unique identifier for this bootstrapper instance.
	name string
	// config contains validated configuration parameters.
	config BootstrapConfig
	// fitter is invoked fresh per resample; it must be pure.
	fitter ports.Fitter
}

// BootstrapConfig defines the configuration parameters for the Bootstrapper.
type BootstrapConfig struct {
	// Samples is the number of independent resamples. Zero disables
	// bootstrapping entirely; EstimateUncertainty then returns an empty map.
	Samples int `yaml:"samples" json:"samples" validate:"min=0"`

	// Seed initializes the master RNG. Identical seeds produce
	// bit-identical statistics.
	Seed int64 `yaml:"seed" json:"seed"`

	// Concurrency caps the number of resamples fitting simultaneously.
	// Zero selects GOMAXPROCS.
	Concurrency int `yaml:"concurrency" json:"concurrency" validate:"min=0"`
}

// DefaultBootstrapConfig returns a BootstrapConfig with the standard
// defaults: 200 resamples, seed 42, concurrency from GOMAXPROCS.
func DefaultBootstrapConfig() BootstrapConfig {
	return BootstrapConfig{Samples: 200, Seed: 42, Concurrency: 0}
}

// NewBootstrapper creates a Bootstrapper that reruns the given fitter per
// resample. Returns ErrEmptyName, ErrNilFitter, or a wrapped validation
// error when misconfigured.
func NewBootstrapper(name string, config BootstrapConfig, fitter ports.Fitter) (*Bootstrapper, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if fitter == nil {
		return nil, ErrNilFitter
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &Bootstrapper{name: name, config: config, fitter: fitter}, nil
}

// Name returns the unique identifier for this bootstrapper instance.
func (b *Bootstrapper) Name() string { return b.name }

// EstimateUncertainty resamples the judgments with replacement, refits each
// resample, and summarizes the per-idea theta draws as mean, population
// standard deviation, and a 95% interval from interpolated percentiles.
// Disabled bootstrapping (Samples == 0) or an empty idea set returns an
// empty map.
func (b *Bootstrapper) EstimateUncertainty(
	ctx context.Context,
	judgments []domain.Judgment,
	ideaIDs, judgeIDs []string,
	profile domain.CalibrationProfile,
) map[string]domain.BootstrapStats {
	out := make(map[string]domain.BootstrapStats)
	if b.config.Samples <= 0 || len(ideaIDs) == 0 {
		return out
	}

	// Sub-seeds are drawn sequentially before any resampling so the
	// resample RNG streams do not depend on worker scheduling.
	master := rand.New(rand.NewSource(b.config.Seed))
	seeds := make([]int64, b.config.Samples)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	// draws[s] holds one theta value per idea (in IdeaIDs order) for
	// resample s. Slot-per-resample writes need no locking.
	draws := make([][]float64, b.config.Samples)

	limit := b.config.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for s := 0; s < b.config.Samples; s++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(seeds[s]))
			sampled := resample(rng, judgments)
			result := b.fitter.Fit(ctx, sampled, ideaIDs, judgeIDs, profile)

			row := make([]float64, len(ideaIDs))
			for i, idea := range ideaIDs {
				row[i] = result.Theta[idea]
			}
			draws[s] = row
			return nil
		})
	}
	// Workers never return errors; Wait is purely the join barrier before
	// aggregation.
	_ = g.Wait()

	for i, idea := range ideaIDs {
		values := make([]float64, b.config.Samples)
		for s := range draws {
			values[s] = draws[s][i]
		}
		out[idea] = summarize(values)
	}

	return out
}

// resample draws len(judgments) judgments uniformly with replacement.
func resample(rng *rand.Rand, judgments []domain.Judgment) []domain.Judgment {
	n := len(judgments)
	if n == 0 {
		return nil
	}
	sampled := make([]domain.Judgment, n)
	for i := range sampled {
		sampled[i] = judgments[rng.Intn(n)]
	}
	return sampled
}

// summarize reduces one idea's bootstrap draws to summary statistics.
// Zero draws yield all-zero statistics.
func summarize(values []float64) domain.BootstrapStats {
	if len(values) == 0 {
		return domain.BootstrapStats{}
	}

	mu := 0.0
	for _, v := range values {
		mu += v
	}
	mu /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mu) * (v - mu)
	}
	variance /= float64(len(values))
	sigma := math.Sqrt(math.Max(0.0, variance))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return domain.BootstrapStats{
		Mu:      mu,
		Sigma:   sigma,
		CILower: percentile(sorted, 0.025),
		CIUpper: percentile(sorted, 0.975),
	}
}
