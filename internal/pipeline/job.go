package pipeline

import "context"

// Status enumerates the lifecycle of one external-service job. Transitions are
// forward-only: queued -> processing -> (completed | failed), or timed-out once
// the poll budget is exhausted. A job is never re-queued; retries create a new job.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusTimedOut   Status = "timed-out"
)

// Terminal reports whether no further status transition can occur.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimedOut:
		return true
	}
	return false
}

// JobKind identifies which external service a job belongs to.
type JobKind string

const (
	KindVideoGenerate    JobKind = "video-generate"
	KindBackgroundRemove JobKind = "background-remove"
)

// Variant is one of the three animation clips produced per bot.
type Variant string

const (
	VariantIdle     Variant = "idle"
	VariantSpeaking Variant = "speaking"
	VariantThinking Variant = "thinking"
)

// Variants returns the three variants in generation order.
func Variants() []Variant {
	return []Variant{VariantIdle, VariantSpeaking, VariantThinking}
}

// Prompt returns the fixed motion prompt for the variant. Prompts are baked in;
// only render parameters are caller-controlled.
func (v Variant) Prompt() string {
	switch v {
	case VariantIdle:
		return "角色保持静止并微微眨眼的待机动画"
	case VariantSpeaking:
		return "角色张嘴说话的自然口型动画"
	case VariantThinking:
		return "角色抬头或皱眉的思考动作动画"
	}
	return ""
}

// Valid reports whether v is one of the known variants.
func (v Variant) Valid() bool {
	return v.Prompt() != ""
}

// RenderParams are the caller-controlled rendering options. Zero values are
// omitted from the outbound payload.
type RenderParams struct {
	Duration    int
	AspectRatio string
	Resolution  string
	StylePreset string
}

// Job tracks one in-flight request to an external service.
type Job struct {
	ID        string
	Kind      JobKind
	Variant   Variant
	Status    Status
	Progress  int
	ResultURL string
	Err       error
}

// JobUpdate is a single poll response from an external service.
type JobUpdate struct {
	Status    Status
	Progress  int
	ResultURL string
	// Message carries the upstream error text when Status is failed.
	Message string
}

// GenerateRequest is one video-generation submission.
type GenerateRequest struct {
	Prompt   string
	ImageRef string
	Params   RenderParams
}

// VideoGenerator submits generation jobs to the video service and reports
// their status.
type VideoGenerator interface {
	Submit(ctx context.Context, req GenerateRequest) (string, error)
	Status(ctx context.Context, jobID string) (JobUpdate, error)
}

// BackgroundRemover submits a rendered clip for background removal and reports
// job status. The submitted URL must be reachable by the external service.
type BackgroundRemover interface {
	Submit(ctx context.Context, videoURL string) (string, error)
	Status(ctx context.Context, jobID string) (JobUpdate, error)
}
