package speech_test

import (
	"strings"
	"testing"

	"github.com/ledgercast/ledgercast/internal/pipeline"
	"github.com/ledgercast/ledgercast/internal/speech"
)

func TestConfigDefaultsToPipelineFormat(t *testing.T) {
	cfg := &speech.Config{Model: "tts-1", APIKey: "key"}

	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if cfg.Format != pipeline.FormatName {
		t.Errorf("format = %q, want %q", cfg.Format, pipeline.FormatName)
	}
}

func TestConfigRejectsForeignFormat(t *testing.T) {
	cfg := &speech.Config{Model: "tts-1", APIKey: "key", Format: "opus"}

	err := cfg.Finalize(nil)
	if err == nil {
		t.Fatal("finalize accepted a format the pipeline cannot stitch")
	}
	if !strings.Contains(err.Error(), "opus") {
		t.Errorf("error %q does not name the rejected format", err)
	}
}
