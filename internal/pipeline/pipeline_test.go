package pipeline_test

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledgercast/ledgercast/internal/pipeline"
)

type fakeProcessor struct {
	mergeErr error
	probeErr error
	duration float64
	merges   int
	inputs   []string
}

func (f *fakeProcessor) Merge(ctx context.Context, inputs []string, output string) error {
	f.merges++
	f.inputs = append([]string(nil), inputs...)
	if f.mergeErr != nil {
		return f.mergeErr
	}

	var joined []byte
	for _, input := range inputs {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		joined = append(joined, data...)
	}

	return os.WriteFile(output, joined, 0o600)
}

func (f *fakeProcessor) Probe(ctx context.Context, input string) (pipeline.Metadata, error) {
	if f.probeErr != nil {
		return pipeline.Metadata{}, f.probeErr
	}
	return pipeline.Metadata{Duration: f.duration}, nil
}

func newSystem(t *testing.T, processor pipeline.Processor) (pipeline.System, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &pipeline.Config{TempDir: dir}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pipeline.New(cfg, processor, logger), dir
}

func TestStitchPreservesOrder(t *testing.T) {
	sys, _ := newSystem(t, &fakeProcessor{})

	stitched, err := sys.Stitch(context.Background(), [][]byte{
		[]byte("alpha-"),
		nil,
		[]byte("beta-"),
		{},
		[]byte("gamma"),
	}, "episode-1")
	if err != nil {
		t.Fatalf("stitch: %v", err)
	}

	if got := string(stitched); got != "alpha-beta-gamma" {
		t.Errorf("stitched = %q, want %q", got, "alpha-beta-gamma")
	}
}

func TestStitchCleansScratchFiles(t *testing.T) {
	sys, dir := newSystem(t, &fakeProcessor{})

	if _, err := sys.Stitch(context.Background(), [][]byte{[]byte("audio")}, "episode-1"); err != nil {
		t.Fatalf("stitch: %v", err)
	}

	assertEmptyDir(t, dir)
}

func TestStitchCleansScratchFilesOnMergeFailure(t *testing.T) {
	sys, dir := newSystem(t, &fakeProcessor{mergeErr: pipeline.ErrStitchFailed})

	_, err := sys.Stitch(context.Background(), [][]byte{[]byte("audio")}, "episode-1")
	if !errors.Is(err, pipeline.ErrStitchFailed) {
		t.Fatalf("stitch error = %v, want ErrStitchFailed", err)
	}

	assertEmptyDir(t, dir)
}

func TestStitchRejectsEmptyInput(t *testing.T) {
	processor := &fakeProcessor{}
	sys, dir := newSystem(t, processor)

	cases := [][][]byte{
		nil,
		{},
		{nil, nil},
		{nil, {}},
	}

	for _, buffers := range cases {
		_, err := sys.Stitch(context.Background(), buffers, "episode-1")
		if !errors.Is(err, pipeline.ErrNoValidInput) {
			t.Errorf("stitch(%v) error = %v, want ErrNoValidInput", buffers, err)
		}
	}

	if processor.merges != 0 {
		t.Errorf("merges = %d, want 0", processor.merges)
	}

	assertEmptyDir(t, dir)
}

func TestStitchScopesScratchFilesToProcess(t *testing.T) {
	processor := &fakeProcessor{}
	sys, _ := newSystem(t, processor)

	buffers := [][]byte{[]byte("a"), []byte("b")}
	if _, err := sys.Stitch(context.Background(), buffers, "podcast-42"); err != nil {
		t.Fatalf("stitch: %v", err)
	}

	if len(processor.inputs) != 2 {
		t.Fatalf("inputs = %d, want 2", len(processor.inputs))
	}
	first := processor.inputs[0]
	for _, input := range processor.inputs {
		name := filepath.Base(input)
		if !strings.Contains(name, "podcast-42") {
			t.Errorf("segment %q does not carry the process id", name)
		}
		if !strings.HasSuffix(name, "."+pipeline.FormatName) {
			t.Errorf("segment %q does not use the pipeline format", name)
		}
	}

	// Reusing a process id must still yield distinct scratch names.
	if _, err := sys.Stitch(context.Background(), buffers, "podcast-42"); err != nil {
		t.Fatalf("stitch: %v", err)
	}
	if processor.inputs[0] == first {
		t.Errorf("scratch name %q reused across calls", first)
	}
}

func TestDuration(t *testing.T) {
	sys, _ := newSystem(t, &fakeProcessor{duration: 187.4})

	if got := sys.Duration(context.Background(), []byte("audio")); got != 187.4 {
		t.Errorf("duration = %v, want 187.4", got)
	}
}

func TestDurationDegradesToZero(t *testing.T) {
	sys, dir := newSystem(t, &fakeProcessor{probeErr: errors.New("probe failed")})

	if got := sys.Duration(context.Background(), []byte("audio")); got != 0 {
		t.Errorf("duration = %v, want 0", got)
	}

	if got := sys.Duration(context.Background(), nil); got != 0 {
		t.Errorf("duration(nil) = %v, want 0", got)
	}

	assertEmptyDir(t, dir)
}

func TestEncodeBase64(t *testing.T) {
	sys, _ := newSystem(t, &fakeProcessor{})

	encoded := sys.EncodeBase64([]byte("audio-bytes"))

	const prefix = "data:audio/mp3;base64,"
	if !strings.HasPrefix(encoded, prefix) {
		t.Fatalf("encoded = %q, want prefix %q", encoded, prefix)
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(encoded, prefix))
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if string(decoded) != "audio-bytes" {
		t.Errorf("decoded = %q, want %q", decoded, "audio-bytes")
	}
}

func TestEncodeBase64EmptyBuffer(t *testing.T) {
	sys, _ := newSystem(t, &fakeProcessor{})

	if got := sys.EncodeBase64(nil); got != "data:audio/mp3;base64," {
		t.Errorf("encoded = %q, want bare data URI prefix", got)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read temp dir: %v", err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, entry := range entries {
			names[i] = entry.Name()
		}
		t.Errorf("temp dir not empty: %v", names)
	}
}
