package pipeline

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog"

	"botworkshop/internal/infra"
)

// AnimationSet holds the three transparent-video URLs produced by one full
// pipeline run. It lives only for the duration of the orchestration call; the
// caller persists the URLs onto the owning bot.
type AnimationSet struct {
	Idle     string
	Speaking string
	Thinking string
}

// ProgressFunc receives blended overall progress for UI feedback. Values are
// non-decreasing and reach 100 only on final success.
type ProgressFunc func(percent int, variant Variant, kind JobKind)

// Options configures an Orchestrator.
type Options struct {
	Generator    VideoGenerator
	Remover      BackgroundRemover
	Normalizer   *Normalizer
	PollInterval time.Duration
	PollAttempts int
	Sleep        SleepFunc
	Logger       *infra.Logger
	OnProgress   ProgressFunc
}

// Orchestrator runs the two-stage pipeline (generate, then strip background)
// for each of the three variants, strictly in sequence. Sequential processing
// keeps upstream rate limits safe; independent orchestrations share no state
// and may run concurrently.
type Orchestrator struct {
	generator  VideoGenerator
	remover    BackgroundRemover
	normalizer *Normalizer
	poller     *Poller
	logger     *infra.Logger
	onProgress ProgressFunc
}

// NewOrchestrator validates options and builds an Orchestrator.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Generator == nil {
		return nil, errors.New("pipeline: video generator is required")
	}
	if opts.Remover == nil {
		return nil, errors.New("pipeline: background remover is required")
	}
	poller := NewPoller(opts.PollInterval, opts.PollAttempts)
	if opts.Sleep != nil {
		poller.Sleep = opts.Sleep
	}
	logger := opts.Logger
	if logger == nil {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	normalizer := opts.Normalizer
	if normalizer == nil {
		normalizer = NewNormalizer(nil)
	}
	return &Orchestrator{
		generator:  opts.Generator,
		remover:    opts.Remover,
		normalizer: normalizer,
		poller:     poller,
		logger:     logger,
		onProgress: opts.OnProgress,
	}, nil
}

// Per-variant weight split between the generate and strip stages. Presentation
// tuning only; the contract is monotonic progress that hits 100 on success.
const (
	generateStageWeight = 60
	stripStageWeight    = 40
)

// GenerateSet produces the three transparent animation clips for one avatar
// image. The first stage error aborts the remaining stages; any clips already
// completed are discarded rather than returned partially.
func (o *Orchestrator) GenerateSet(ctx context.Context, imageRef string, params RenderParams) (*AnimationSet, error) {
	imageAsset, err := o.normalizer.Normalize(ctx, imageRef)
	if err != nil {
		return nil, err
	}

	set := &AnimationSet{}
	tracker := newProgressTracker(o.onProgress)

	for i, variant := range Variants() {
		variantBase := i * 100 / 3

		rawURL, err := o.generateVariant(ctx, variant, imageAsset, params, func(stagePercent int) {
			tracker.report(variantBase+stagePercent*generateStageWeight/300, variant, KindVideoGenerate)
		})
		if err != nil {
			o.logger.Error().Err(err).Str("variant", string(variant)).Msg("pipeline: generation stage failed")
			return nil, err
		}
		tracker.report(variantBase+generateStageWeight/3, variant, KindVideoGenerate)

		transparentURL, err := o.stripVariant(ctx, variant, rawURL, func(stagePercent int) {
			tracker.report(variantBase+generateStageWeight/3+stagePercent*stripStageWeight/300, variant, KindBackgroundRemove)
		})
		if err != nil {
			o.logger.Error().Err(err).Str("variant", string(variant)).Msg("pipeline: strip stage failed")
			return nil, err
		}
		tracker.report((i+1)*100/3, variant, KindBackgroundRemove)

		switch variant {
		case VariantIdle:
			set.Idle = transparentURL
		case VariantSpeaking:
			set.Speaking = transparentURL
		case VariantThinking:
			set.Thinking = transparentURL
		}
		o.logger.Info().
			Str("variant", string(variant)).
			Str("url", transparentURL).
			Msg("pipeline: variant complete")
	}

	tracker.report(100, VariantThinking, KindBackgroundRemove)
	return set, nil
}

func (o *Orchestrator) generateVariant(ctx context.Context, variant Variant, imageAsset string, params RenderParams, onStage func(int)) (string, error) {
	jobID, err := o.generator.Submit(ctx, GenerateRequest{
		Prompt:   variant.Prompt(),
		ImageRef: imageAsset,
		Params:   params,
	})
	if err != nil {
		return "", &SubmitError{Kind: KindVideoGenerate, Err: err}
	}
	o.logger.Debug().Str("variant", string(variant)).Str("job_id", jobID).Msg("pipeline: generation submitted")

	job := &Job{ID: jobID, Kind: KindVideoGenerate, Variant: variant, Status: StatusQueued}
	if err := o.poller.Wait(ctx, job, func(ctx context.Context) (JobUpdate, error) {
		return o.generator.Status(ctx, jobID)
	}, onStage); err != nil {
		return "", err
	}
	return job.ResultURL, nil
}

func (o *Orchestrator) stripVariant(ctx context.Context, variant Variant, rawURL string, onStage func(int)) (string, error) {
	jobID, err := o.remover.Submit(ctx, rawURL)
	if err != nil {
		return "", &SubmitError{Kind: KindBackgroundRemove, Err: err}
	}
	o.logger.Debug().Str("variant", string(variant)).Str("job_id", jobID).Msg("pipeline: background removal submitted")

	job := &Job{ID: jobID, Kind: KindBackgroundRemove, Variant: variant, Status: StatusQueued}
	if err := o.poller.Wait(ctx, job, func(ctx context.Context) (JobUpdate, error) {
		return o.remover.Status(ctx, jobID)
	}, onStage); err != nil {
		return "", err
	}
	return job.ResultURL, nil
}

// progressTracker keeps the presented overall percentage monotonic across
// stages even when individual stage math rounds downward.
type progressTracker struct {
	fn   ProgressFunc
	seen int
}

func newProgressTracker(fn ProgressFunc) *progressTracker {
	return &progressTracker{fn: fn}
}

func (t *progressTracker) report(percent int, variant Variant, kind JobKind) {
	if percent > 100 {
		percent = 100
	}
	if percent <= t.seen {
		return
	}
	t.seen = percent
	if t.fn != nil {
		t.fn(percent, variant, kind)
	}
}
