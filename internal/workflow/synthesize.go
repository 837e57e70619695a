package workflow

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"
)

// SynthesizeNode returns a state node that synthesizes every dialogue line
// with bounded errgroup concurrency. Segments land in script order
// regardless of completion order.
func SynthesizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		script, err := extractScript(s)
		if err != nil {
			return s, fmt.Errorf("synthesize: %w: %w", ErrSynthesisFailed, err)
		}

		segments := make([][]byte, len(script.Lines))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(rt.Settings.SynthWorkers)

		for i, line := range script.Lines {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				voice := rt.Settings.VoiceFor(line.Speaker)
				audio, err := rt.Synth.Synthesize(gctx, line.Line, voice)
				if err != nil {
					return fmt.Errorf("synthesize line %d (%s): %w", i+1, line.Speaker, err)
				}

				segments[i] = audio
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("synthesize: %w: %w", ErrSynthesisFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "synthesize node complete",
			"segments", len(segments),
		)

		return s.Set(KeyAudioSegments, segments), nil
	})
}

func extractSegments(s state.State) ([][]byte, error) {
	val, ok := s.Get(KeyAudioSegments)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyAudioSegments)
	}

	segments, ok := val.([][]byte)
	if !ok {
		return nil, fmt.Errorf("%s is not [][]byte", KeyAudioSegments)
	}

	return segments, nil
}
