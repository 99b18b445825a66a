package trajectory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/stripcam/internal/camera"
)

// Correspondence pairs a pixel column in the previous frame with one in
// the current frame.
type Correspondence struct {
	Prev, Cur int
}

// MatchResult is what a FeatureMatcher found between two frames.
type MatchResult struct {
	Pairs []Correspondence
}

// FeatureMatcher detects and matches features between consecutive frames.
type FeatureMatcher interface {
	Match(prev, cur *camera.Frame) (*MatchResult, error)
}

// Step is one rendered pose of a run.
type Step struct {
	RunID string
	Index int
	Pose  Pose
	Frame *camera.Frame
	// Matches is nil for the first step and when no matcher is set.
	Matches *MatchResult
}

// Sink receives each step as it is rendered.
type Sink interface {
	Consume(ctx context.Context, step Step) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, step Step) error

func (f SinkFunc) Consume(ctx context.Context, step Step) error { return f(ctx, step) }

// Summary describes a completed run.
type Summary struct {
	RunID        string
	Frames       int
	Matches      int
	MeanCoverage float64
	Elapsed      time.Duration
}

// Runner renders a camera along a trajectory.
type Runner struct {
	Camera  *camera.Camera
	Matcher FeatureMatcher // optional
	Sink    Sink           // optional
}

// Run visits each pose in order. It stops at the first render, match or
// sink error, or when ctx is cancelled between poses.
func (r *Runner) Run(ctx context.Context, poses []Pose) (Summary, error) {
	runID := uuid.New().String()
	start := time.Now()
	sum := Summary{RunID: runID}
	diagf("run %s: %d poses", runID, len(poses))

	var prev *camera.Frame
	coverage := 0.0
	for i, pose := range poses {
		if err := ctx.Err(); err != nil {
			opsf("run %s cancelled after %d frames: %v", runID, sum.Frames, err)
			return sum, err
		}

		r.Camera.SetPosition(pose.Position)
		r.Camera.SetYaw(pose.Yaw)
		frame, err := r.Camera.RenderFrame()
		if err != nil {
			opsf("run %s step %d: render failed: %v", runID, i, err)
			return sum, fmt.Errorf("step %d: render: %w", i, err)
		}

		step := Step{RunID: runID, Index: i, Pose: pose, Frame: frame}
		if r.Matcher != nil && prev != nil {
			m, err := r.Matcher.Match(prev, frame)
			if err != nil {
				opsf("run %s step %d: match failed: %v", runID, i, err)
				return sum, fmt.Errorf("step %d: match: %w", i, err)
			}
			step.Matches = m
			if m != nil {
				sum.Matches += len(m.Pairs)
			}
		}

		if r.Sink != nil {
			if err := r.Sink.Consume(ctx, step); err != nil {
				return sum, fmt.Errorf("step %d: sink: %w", i, err)
			}
		}

		coverage += frame.Coverage()
		sum.Frames++
		prev = frame
		tracef("run %s step %d at %v yaw=%.4f coverage=%.2f", runID, i, pose.Position, pose.Yaw, frame.Coverage())
	}

	if sum.Frames > 0 {
		sum.MeanCoverage = coverage / float64(sum.Frames)
	}
	sum.Elapsed = time.Since(start)
	diagf("run %s complete: %d frames, %d matches, mean coverage %.2f in %.2fs",
		runID, sum.Frames, sum.Matches, sum.MeanCoverage, sum.Elapsed.Seconds())
	return sum, nil
}
