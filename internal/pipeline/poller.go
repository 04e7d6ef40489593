package pipeline

import (
	"context"
	"fmt"
	"time"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultPollAttempts = 120
)

// SleepFunc suspends for d or until the context is done. Injectable so tests
// can simulate many ticks without wall-clock delay.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poller drives a job to a terminal state with fixed-delay polling. The delay
// is deliberately not exponential: the UI progress bar expects steady updates.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
	Sleep       SleepFunc
}

// NewPoller builds a poller, applying defaults for non-positive settings.
func NewPoller(interval time.Duration, maxAttempts int) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if maxAttempts <= 0 {
		maxAttempts = defaultPollAttempts
	}
	return &Poller{Interval: interval, MaxAttempts: maxAttempts, Sleep: sleepWithContext}
}

// Wait polls check until the job reaches a terminal state or the attempt
// budget runs out, mutating job in place. Presented progress is the maximum
// seen so far, clamped to [0,100]; upstream values may regress but the caller
// never sees that. onProgress may be nil.
//
// Calling Wait on an already-terminal job returns the stored outcome without
// touching the external service.
func (p *Poller) Wait(ctx context.Context, job *Job, check func(context.Context) (JobUpdate, error), onProgress func(int)) error {
	if job.Status.Terminal() {
		return job.Err
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		update, err := check(ctx)
		if err != nil {
			job.Status = StatusFailed
			job.Err = fmt.Errorf("pipeline: poll %s job %s: %w", job.Kind, job.ID, err)
			return job.Err
		}

		if progress := clampProgress(update.Progress); progress > job.Progress {
			job.Progress = progress
			if onProgress != nil {
				onProgress(job.Progress)
			}
		}

		switch update.Status {
		case StatusCompleted:
			job.Status = StatusCompleted
			job.ResultURL = update.ResultURL
			if job.Progress < 100 {
				job.Progress = 100
				if onProgress != nil {
					onProgress(job.Progress)
				}
			}
			return nil
		case StatusFailed:
			job.Status = StatusFailed
			job.Err = &UpstreamError{Kind: job.Kind, Message: update.Message}
			return job.Err
		default:
			job.Status = StatusProcessing
		}

		if attempt == p.MaxAttempts {
			break
		}
		if err := sleep(ctx, p.Interval); err != nil {
			job.Status = StatusFailed
			job.Err = fmt.Errorf("pipeline: wait for %s job %s: %w", job.Kind, job.ID, err)
			return job.Err
		}
	}

	job.Status = StatusTimedOut
	job.Err = &TimeoutError{Kind: job.Kind, Attempts: p.MaxAttempts}
	return job.Err
}

func clampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
