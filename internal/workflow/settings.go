package workflow

import "fmt"

// Settings holds generation parameters for the workflow.
type Settings struct {
	// PromptKey names the registry entry whose active version drives
	// script generation.
	PromptKey string `toml:"prompt_key"`
	// Voices maps script speaker names to synthesis voice identifiers.
	Voices map[string]string `toml:"voices"`
	// DefaultVoice is used for speakers absent from Voices.
	DefaultVoice string `toml:"default_voice"`
	// SynthWorkers bounds concurrent synthesis calls per episode.
	SynthWorkers int `toml:"synth_workers"`
}

// Finalize applies defaults and validation.
func (s *Settings) Finalize() error {
	if s.PromptKey == "" {
		s.PromptKey = "script-gen"
	}
	if s.DefaultVoice == "" {
		return fmt.Errorf("default_voice required")
	}
	if s.SynthWorkers <= 0 {
		s.SynthWorkers = 4
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (s *Settings) Merge(overlay *Settings) {
	if overlay.PromptKey != "" {
		s.PromptKey = overlay.PromptKey
	}
	if len(overlay.Voices) > 0 {
		s.Voices = overlay.Voices
	}
	if overlay.DefaultVoice != "" {
		s.DefaultVoice = overlay.DefaultVoice
	}
	if overlay.SynthWorkers > 0 {
		s.SynthWorkers = overlay.SynthWorkers
	}
}

// VoiceFor resolves the synthesis voice for a speaker name.
func (s *Settings) VoiceFor(speaker string) string {
	if voice, ok := s.Voices[speaker]; ok {
		return voice
	}
	return s.DefaultVoice
}
