package workflow

import (
	"context"
	"log/slog"

	"github.com/ledgercast/ledgercast/internal/articles"
	"github.com/ledgercast/ledgercast/internal/pipeline"
	"github.com/ledgercast/ledgercast/internal/prompts"
	"github.com/ledgercast/ledgercast/pkg/storage"
)

// ChatModel is the narrow contract for the LLM collaborator: send a message
// set, get text back. Provider response envelopes are handled behind it.
type ChatModel interface {
	Chat(ctx context.Context, messages []prompts.Message, temperature *float64, maxTokens *int) (string, error)
}

// Synthesizer is the narrow contract for the TTS collaborator: synthesize
// one utterance with one voice, get audio bytes back.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Runtime bundles the dependencies that workflow nodes require.
// It is constructed by the episode domain from Infrastructure and Domain systems.
type Runtime struct {
	Prompts  prompts.System
	Scraper  articles.Scraper
	Pipeline pipeline.System
	Storage  storage.System
	Model    ChatModel
	Synth    Synthesizer
	Settings Settings
	Logger   *slog.Logger
}
