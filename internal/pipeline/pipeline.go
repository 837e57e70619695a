// Package pipeline stitches per-speaker audio segments into a single episode
// track and derives playback metadata from the result.
package pipeline

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// FormatName is the single container format the pipeline handles end to end.
// Synthesized segments, the merged track, and the data URI all use it.
const FormatName = "mp3"

const (
	fileExtension = "." + FormatName
	mediaType     = "audio/" + FormatName
)

// System assembles episode audio from synthesized segments.
type System interface {
	// Stitch concatenates the non-empty buffers in order into one track.
	// processID correlates the call's scratch files; reusing it across
	// calls is safe. Returns ErrNoValidInput when every buffer is nil or
	// empty.
	Stitch(ctx context.Context, buffers [][]byte, processID string) ([]byte, error)
	// Duration returns the track length in seconds, or 0 when the track
	// cannot be probed.
	Duration(ctx context.Context, buffer []byte) float64
	// EncodeBase64 renders the track as an inline audio data URI.
	EncodeBase64(buffer []byte) string
}

type system struct {
	processor Processor
	tempDir   string
	logger    *slog.Logger
}

// New creates a pipeline system over the given media processor.
func New(cfg *Config, processor Processor, logger *slog.Logger) System {
	return &system{
		processor: processor,
		tempDir:   cfg.TempDir,
		logger:    logger.With("system", "pipeline"),
	}
}

func (s *system) Stitch(ctx context.Context, buffers [][]byte, processID string) ([]byte, error) {
	valid := make([][]byte, 0, len(buffers))
	for _, buffer := range buffers {
		if len(buffer) > 0 {
			valid = append(valid, buffer)
		}
	}

	if len(valid) == 0 {
		return nil, ErrNoValidInput
	}

	scratch := newTracker(s.logger)
	defer scratch.cleanup()

	inputs := make([]string, len(valid))
	for i, buffer := range valid {
		path := s.scratchPath(processID, fmt.Sprintf("segment-%03d", i))
		if err := os.WriteFile(path, buffer, 0o600); err != nil {
			return nil, fmt.Errorf("write segment %d: %w", i, err)
		}
		scratch.add(path)
		inputs[i] = path
	}

	output := s.scratchPath(processID, "stitched")
	scratch.add(output)

	if err := s.processor.Merge(ctx, inputs, output); err != nil {
		return nil, err
	}

	stitched, err := os.ReadFile(output)
	if err != nil {
		return nil, fmt.Errorf("read stitched track: %w", err)
	}

	s.logger.Debug("stitched audio segments",
		"segments", len(valid),
		"bytes", len(stitched))

	return stitched, nil
}

func (s *system) Duration(ctx context.Context, buffer []byte) float64 {
	if len(buffer) == 0 {
		return 0
	}

	scratch := newTracker(s.logger)
	defer scratch.cleanup()

	path := s.scratchPath("probe", "track")
	if err := os.WriteFile(path, buffer, 0o600); err != nil {
		s.logger.Warn("failed to stage track for probe", "error", err)
		return 0
	}
	scratch.add(path)

	meta, err := s.processor.Probe(ctx, path)
	if err != nil {
		s.logger.Warn("failed to probe track duration", "error", err)
		return 0
	}

	return meta.Duration
}

func (s *system) EncodeBase64(buffer []byte) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(buffer)
}

var unsafeScopeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// scratchPath builds a collision-safe file name: the pid separates concurrent
// processes sharing a temp dir, the scope correlates files from one call, and
// the uuid separates concurrent calls reusing a scope.
func (s *system) scratchPath(scope, label string) string {
	scope = unsafeScopeChars.ReplaceAllString(scope, "-")
	name := fmt.Sprintf("ledgercast-%d-%s-%s-%s%s",
		os.Getpid(), scope, label, uuid.NewString(), fileExtension)
	return filepath.Join(s.tempDir, name)
}
