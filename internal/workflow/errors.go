package workflow

import "errors"

// Workflow errors. Node failures wrap one of these so the episode domain
// can report which stage failed.
var (
	ErrScrapeFailed    = errors.New("article scrape failed")
	ErrScriptFailed    = errors.New("script generation failed")
	ErrSynthesisFailed = errors.New("speech synthesis failed")
	ErrFinalizeFailed  = errors.New("audio finalization failed")
)
