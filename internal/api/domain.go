package api

import (
	"github.com/ledgercast/ledgercast/internal/articles"
	"github.com/ledgercast/ledgercast/internal/episodes"
	"github.com/ledgercast/ledgercast/internal/llm"
	"github.com/ledgercast/ledgercast/internal/pipeline"
	"github.com/ledgercast/ledgercast/internal/prompts"
	"github.com/ledgercast/ledgercast/internal/speech"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts  prompts.System
	Episodes episodes.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	cfg := runtime.Config

	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	pipelineSystem := pipeline.New(
		&cfg.Pipeline,
		pipeline.NewFFmpeg(&cfg.Pipeline),
		runtime.Logger,
	)

	episodesSystem := episodes.New(
		runtime.Database.Connection(),
		runtime.Storage,
		pipelineSystem,
		articles.New(&cfg.Articles, runtime.Logger),
		promptsSystem,
		llm.New(&cfg.LLM),
		speech.New(&cfg.Speech),
		cfg.Generation,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Prompts:  promptsSystem,
		Episodes: episodesSystem,
	}
}
