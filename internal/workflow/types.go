// Package workflow implements the podcast generation workflow for
// Ledgercast. It sequences article scraping, script generation, speech
// synthesis, and audio assembly as a state graph, producing a
// GenerationResult that the episode domain persists.
package workflow

// State bag keys shared across workflow nodes.
const (
	KeyEpisodeID     = "episode_id"
	KeySourceURL     = "source_url"
	KeyArticle       = "article"
	KeyScript        = "script"
	KeyAudioSegments = "audio_segments"
	KeyResult        = "result"
)

// DialogueLine is one speaker/utterance pair in a generated script.
// Order is significant: it determines audio order.
type DialogueLine struct {
	Speaker string `json:"speaker"`
	Line    string `json:"line"`
}

// GenerationResult is the outcome of one completed generation workflow.
type GenerationResult struct {
	Title           string         `json:"title"`
	Script          []DialogueLine `json:"script"`
	StorageKey      string         `json:"storageKey"`
	DurationSeconds float64        `json:"durationSeconds"`
}

// scriptResponse mirrors the JSON shape the script prompt asks the model
// to produce.
type scriptResponse struct {
	Title string         `json:"title"`
	Lines []DialogueLine `json:"lines"`
}
