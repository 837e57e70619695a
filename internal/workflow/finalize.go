package workflow

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/ledgercast/ledgercast/internal/pipeline"
)

// FinalizeNode returns a state node that stitches the synthesized segments
// into one track, probes its duration, uploads it to blob storage, and
// stores the GenerationResult in the state bag.
func FinalizeNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		episodeID, err := extractEpisodeID(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}

		script, err := extractScript(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}

		segments, err := extractSegments(s)
		if err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}

		stitched, err := rt.Pipeline.Stitch(ctx, segments, episodeID.String())
		if err != nil {
			return s, fmt.Errorf("finalize: %w: %w", ErrFinalizeFailed, err)
		}

		// Advisory metadata; a probe failure yields 0 rather than aborting.
		duration := rt.Pipeline.Duration(ctx, stitched)

		key := fmt.Sprintf("episodes/%s.%s", episodeID, pipeline.FormatName)
		if err := rt.Storage.Upload(ctx, key, bytes.NewReader(stitched), "audio/mpeg"); err != nil {
			return s, fmt.Errorf("finalize: %w: upload: %w", ErrFinalizeFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "finalize node complete",
			"episodeId", episodeID,
			"storageKey", key,
			"durationSeconds", duration,
			"bytes", len(stitched),
		)

		return s.Set(KeyResult, GenerationResult{
			Title:           script.Title,
			Script:          script.Lines,
			StorageKey:      key,
			DurationSeconds: duration,
		}), nil
	})
}

func extractEpisodeID(s state.State) (uuid.UUID, error) {
	val, ok := s.Get(KeyEpisodeID)
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %s in state", KeyEpisodeID)
	}

	episodeID, ok := val.(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("%s is not uuid.UUID", KeyEpisodeID)
	}

	return episodeID, nil
}
