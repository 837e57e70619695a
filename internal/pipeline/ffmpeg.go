package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Metadata describes a probed media file.
type Metadata struct {
	// Duration in seconds.
	Duration float64
}

// Processor abstracts the external media toolchain so the pipeline can be
// tested without ffmpeg installed.
type Processor interface {
	// Merge concatenates the input files into output, preserving order.
	Merge(ctx context.Context, inputs []string, output string) error
	// Probe reads container metadata from input.
	Probe(ctx context.Context, input string) (Metadata, error)
}

// FFmpeg implements Processor by shelling out to ffmpeg and ffprobe.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates an FFmpeg processor from configured tool paths.
func NewFFmpeg(cfg *Config) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  cfg.FFmpegPath,
		ffprobePath: cfg.FFprobePath,
	}
}

// Merge uses the concat demuxer with stream copy, so segments join without
// re-encoding. All inputs must share a codec, which holds for segments
// produced by the same synthesis voice settings.
func (f *FFmpeg) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return ErrNoValidInput
	}

	list, err := writeConcatList(inputs, output)
	if err != nil {
		return err
	}
	defer os.Remove(list)

	cmd := exec.CommandContext(ctx, f.ffmpegPath,
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", list,
		"-c", "copy",
		output,
	)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %v: %s", ErrStitchFailed, err, lastLine(stderr.String()))
	}

	return nil
}

// Probe reads the container duration via ffprobe.
func (f *FFmpeg) Probe(ctx context.Context, input string) (Metadata, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		input,
	)

	out, err := cmd.Output()
	if err != nil {
		return Metadata{}, fmt.Errorf("probe %s: %w", input, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return Metadata{}, fmt.Errorf("parse duration for %s: %w", input, err)
	}

	return Metadata{Duration: duration}, nil
}

// writeConcatList writes an ffmpeg concat manifest next to the output file.
// Single quotes in paths are escaped per the concat demuxer's quoting rules.
func writeConcatList(inputs []string, output string) (string, error) {
	var sb strings.Builder
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return "", fmt.Errorf("resolve input %s: %w", input, err)
		}
		sb.WriteString("file '")
		sb.WriteString(strings.ReplaceAll(abs, "'", `'\''`))
		sb.WriteString("'\n")
	}

	list := output + ".txt"
	if err := os.WriteFile(list, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write concat list: %w", err)
	}

	return list, nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	if len(lines) == 0 {
		return ""
	}
	return lines[len(lines)-1]
}
